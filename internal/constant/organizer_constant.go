package constant

// Note type labels. Classification always lands on one of these; the two
// sentinel labels never seed a cluster centroid.
const (
	NoteTypeIdea         = "idea"
	NoteTypeTask         = "task"
	NoteTypeContact      = "contact"
	NoteTypeLink         = "link"
	NoteTypeImage        = "image"
	NoteTypeVoice        = "voice"
	NoteTypeMisc         = "misc"
	NoteTypeNope         = "nope"
	NoteTypeUnclassified = "unclassified"
)

// MiscCluster is the fallback bucket for notes no centroid claims.
const MiscCluster = "Misc"

// MiscClusterConfidence is fixed, not distance-derived: distance to the
// nearest real centroid says nothing about how "Misc" a note is.
const MiscClusterConfidence = 0.5

// ClusterDisplayNames maps raw type labels to human-readable cluster names.
// Unknown labels fall back to MiscCluster.
var ClusterDisplayNames = map[string]string{
	NoteTypeIdea:    "Ideas",
	NoteTypeTask:    "Tasks",
	NoteTypeContact: "Contacts",
	NoteTypeLink:    "Links",
	NoteTypeImage:   "Images",
	NoteTypeVoice:   "Voice",
	NoteTypeMisc:    "Misc",
}

// SentinelTypes never contribute to centroid computation.
var SentinelTypes = map[string]bool{
	NoteTypeUnclassified: true,
	NoteTypeNope:         true,
}

// ClusterDisplayName resolves a raw type label to its cluster display name.
func ClusterDisplayName(noteType string) string {
	if name, ok := ClusterDisplayNames[noteType]; ok {
		return name
	}
	return MiscCluster
}

// IsKnownNoteType reports whether the label belongs to the closed type set.
func IsKnownNoteType(noteType string) bool {
	switch noteType {
	case NoteTypeIdea, NoteTypeTask, NoteTypeContact, NoteTypeLink,
		NoteTypeImage, NoteTypeVoice, NoteTypeMisc, NoteTypeNope, NoteTypeUnclassified:
		return true
	}
	return false
}

// Weekly insight sentiments. The generator coerces anything outside this set
// to SentimentNeutral.
const (
	SentimentPositive   = "positive"
	SentimentNegative   = "negative"
	SentimentMixed      = "mixed"
	SentimentNeutral    = "neutral"
	SentimentDetermined = "determined"
	SentimentAnxious    = "anxious"
	SentimentExcited    = "excited"
	SentimentReflective = "reflective"
)

var ValidSentiments = map[string]bool{
	SentimentPositive:   true,
	SentimentNegative:   true,
	SentimentMixed:      true,
	SentimentNeutral:    true,
	SentimentDetermined: true,
	SentimentAnxious:    true,
	SentimentExcited:    true,
	SentimentReflective: true,
}

// NormalizeSentiment validates a model-returned sentiment against the closed enum.
func NormalizeSentiment(sentiment string) string {
	if ValidSentiments[sentiment] {
		return sentiment
	}
	return SentimentNeutral
}

// Excerpt limits shared by the stack builder and insight generator.
const (
	StackSampleNotes     = 5
	StackMinClusterSize  = 2
	InsightMaxNotes      = 50
	ExcerptMaxChars      = 200
	InsightWeekDays      = 7
	BatchReportMaxErrors = 20
)

// Embedding task types forwarded to providers that distinguish them.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

// Feature names used for usage attribution on billable provider calls.
const (
	FeatureNoteEmbedding    = "note_embedding"
	FeatureMessageEmbedding = "message_embedding"
	FeatureThreadMatch      = "thread_match"
	FeatureStackSummary     = "stack_summary"
	FeatureWeeklyInsight    = "weekly_insight"
	FeatureClassification   = "classification"
)

const StackSummarySystemPrompt = "You create concise, insightful summaries of note collections. Keep it to 1-2 sentences."

const InsightSystemPrompt = "You are a thoughtful analyst helping someone understand patterns in their thinking."

const ClassifySystemPrompt = "You are a note classification assistant. Analyze notes and categorize them accurately."
