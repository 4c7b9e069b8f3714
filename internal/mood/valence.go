package mood

// NeutralValence is the midpoint baseline of the valence scale.
const NeutralValence = 4.0

// valences places each canonical mood on a 1 (most negative) to 8 (most
// positive) scale.
var valences = map[Mood]float64{
	Sad:      1,
	Negative: 2,
	Disgust:  2,
	Angry:    3,
	Fear:     3,
	Neutral:  NeutralValence,
	Unknown:  NeutralValence,
	Surprise: 6,
	Positive: 7,
	Joy:      8,
}

// Valence returns the valence of m. Non-canonical values are treated as
// Unknown.
func Valence(m Mood) float64 {
	if v, ok := valences[m]; ok {
		return v
	}
	return NeutralValence
}

// Band labels a (possibly averaged) valence for display.
func Band(v float64) string {
	switch {
	case v >= 7:
		return "Very Positive"
	case v >= 5.5:
		return "Positive"
	case v >= 4.5:
		return "Neutral"
	case v >= 3:
		return "Negative"
	default:
		return "Very Negative"
	}
}

var suggestions = map[Mood]string{
	Sad:      "Consider taking a gentle walk, listening to uplifting music, or reaching out to a friend who makes you smile.",
	Fear:     "Try some deep breathing exercises, meditation, or writing down what's worrying you to help process these feelings.",
	Angry:    "Take some time to cool down. Deep breaths, physical exercise, or journaling can help channel this energy positively.",
	Negative: "Remember that difficult feelings are temporary. Consider doing something kind for yourself or others today.",
}

// Suggestion returns a short self-care hint for difficult moods and "" for
// the rest.
func Suggestion(m Mood) string {
	return suggestions[m]
}
