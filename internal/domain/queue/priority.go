package queue

// Priority bounds for queue items
const (
	MinPriority = 1
	MaxPriority = 10

	// Report volume contributes at most this much
	maxReportBoost = 3
)

// Base priority weight per item type
var baseWeights = map[ItemType]int{
	ItemTypeReport:    3,
	ItemTypeUser:      2,
	ItemTypeHackathon: 1,
	ItemTypeProject:   1,
}

// CalculatePriority computes the priority of a queue item from its type, the
// number of already-recorded reports and the trust score of the reporter that
// triggered the computation. newReporter is true when a reporter not yet
// recorded on the item supplied this report.
//
// Pure and total: all numeric inputs are clamped, the result is always within
// [MinPriority, MaxPriority].
func CalculatePriority(itemType ItemType, reporterTrust, existingReports int, newReporter bool) int {
	weight, ok := baseWeights[itemType]
	if !ok {
		weight = MinPriority
	}

	if existingReports < 0 {
		existingReports = 0
	}
	totalReports := existingReports
	if newReporter {
		totalReports++
	}
	boost := totalReports
	if boost > maxReportBoost {
		boost = maxReportBoost
	}

	priority := weight + boost

	switch {
	case reporterTrust > 90:
		priority += 2
	case reporterTrust > 70:
		priority++
	}

	if priority < MinPriority {
		priority = MinPriority
	}
	if priority > MaxPriority {
		priority = MaxPriority
	}
	return priority
}

// MergePriority keeps a stored priority monotonically non-decreasing when a
// duplicate report is merged into an existing item.
func MergePriority(existing, computed int) int {
	if computed > existing {
		return computed
	}
	return existing
}

// Band groups priorities for filtering
type Band string

const (
	BandHigh   Band = "high"   // priority >= 7
	BandMedium Band = "medium" // priority in [4,7)
	BandLow    Band = "low"    // priority in [1,4)
)

// BandFor returns the priority band of a priority value
func BandFor(priority int) Band {
	switch {
	case priority >= 7:
		return BandHigh
	case priority >= 4:
		return BandMedium
	default:
		return BandLow
	}
}
