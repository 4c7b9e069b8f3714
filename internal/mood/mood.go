package mood

// Mood is a member of the fixed internal mood taxonomy. Values of this type
// are always canonical; raw classifier labels go through Normalize first.
type Mood string

const (
	Sad      Mood = "sad"
	Angry    Mood = "angry"
	Fear     Mood = "fear"
	Disgust  Mood = "disgust"
	Joy      Mood = "joy"
	Surprise Mood = "surprise"
	Neutral  Mood = "neutral"
	Positive Mood = "positive"
	Negative Mood = "negative"
	Unknown  Mood = "unknown"
)

// All lists every canonical mood, fallback last.
var All = []Mood{Sad, Angry, Fear, Disgust, Joy, Surprise, Neutral, Positive, Negative, Unknown}

// IsCanonical reports whether m belongs to the taxonomy.
func (m Mood) IsCanonical() bool {
	_, ok := valences[m]
	return ok
}

func (m Mood) String() string { return string(m) }
