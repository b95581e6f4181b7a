package domain

// FeedbackSignal is a single piece of user feedback for a knowledge item:
// either an explicit rating, or a boolean helpfulness flag when no rating is
// given.
type FeedbackSignal struct {
	Rating  *float64
	Helpful bool
	Comment string
}

// Value normalizes the signal to [0,1]. Ratings above 1 are treated as a
// 0-5 scale and divided by 5; ratings at or below 1 are used as-is. Without
// a rating the helpful flag maps to 1.0/0.0.
func (s FeedbackSignal) Value() float64 {
	if s.Rating != nil {
		r := *s.Rating
		if r > 1 {
			r = r / 5.0
		}
		return r
	}
	if s.Helpful {
		return 1.0
	}
	return 0.0
}

// ImplicitFeedback is the signal recorded when a chosen candidate is shown
// to the user.
func ImplicitFeedback() FeedbackSignal {
	return FeedbackSignal{Helpful: true}
}

// NextEffectiveness folds one feedback value into the running mean of an
// item's effectiveness score. usageCount is the count before this signal.
func NextEffectiveness(effectiveness float64, usageCount int64, value float64) (newEffectiveness float64, newUsage int64) {
	newUsage = usageCount + 1
	newEffectiveness = (effectiveness*float64(usageCount) + value) / float64(newUsage)
	return newEffectiveness, newUsage
}
