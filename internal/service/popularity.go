package service

import "github.com/d60-Lab/friend-graph/internal/model"

const sharedHobbyWeight = 0.5

// SharedHobbyOccurrences counts every hobby entry of every friend that also
// appears in hobbies. Matching is exact and case-sensitive. A friend listing
// two of the user's hobbies contributes 2; duplicates in the user's own list
// add nothing.
func SharedHobbyOccurrences(hobbies []string, friends []*model.User) int {
	if len(hobbies) == 0 || len(friends) == 0 {
		return 0
	}
	own := make(map[string]struct{}, len(hobbies))
	for _, h := range hobbies {
		own[h] = struct{}{}
	}
	n := 0
	for _, f := range friends {
		for _, h := range f.Hobbies {
			if _, ok := own[h]; ok {
				n++
			}
		}
	}
	return n
}

// PopularityScore = friendCount + 0.5 * SharedHobbyOccurrences.
func PopularityScore(hobbies []string, friendCount int, friends []*model.User) float64 {
	return float64(friendCount) + sharedHobbyWeight*float64(SharedHobbyOccurrences(hobbies, friends))
}
