package report

import "ymlfeed/report/internal/domain"

// CountOffers returns how many offers reference each category id.
// Ids unknown to the category list are counted as well.
func CountOffers(offers []domain.OfferRef) map[string]int {
	counts := make(map[string]int)
	for _, offer := range offers {
		counts[offer.CategoryID]++
	}
	return counts
}
