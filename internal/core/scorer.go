package core

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/localedge/growthplan/pkg/models"
)

// Signal names for the per-intent coefficient table.
const (
	sigLocation       = "location"
	sigTopicClarity   = "topic_clarity"
	sigYearModifier   = "year_modifier"
	sigExpertiseCue   = "expertise_cue"
	sigKeywordCover   = "keyword_coverage"
	sigExactPhrase    = "exact_phrase"
	sigCommercialVerb = "commercial_verb"
	sigBrandMention   = "brand_mention"
	sigQuestionFormat = "question_format"
	sigHypeDensity    = "hype_density"
	sigEmotionalOnly  = "emotional_only"
	sigLengthFit      = "length_fit"
	sigFrontLoad      = "front_load"
)

// scoreBase is the starting score every candidate carries before signals
// are applied.
const scoreBase = 30

// intentWeights is the per-intent coefficient table. A weight scales both
// the bonus and the penalty of its signal, so a near-zero weight
// effectively disables the signal for that intent.
var intentWeights = map[models.PageIntent]map[string]float64{
	models.PageIntentMoney: {
		sigLocation: 1.2, sigTopicClarity: 1.0, sigYearModifier: 0.3,
		sigExpertiseCue: 0.8, sigKeywordCover: 1.0, sigExactPhrase: 1.0,
		sigCommercialVerb: 1.0, sigBrandMention: 1.0, sigQuestionFormat: 1.0,
		sigHypeDensity: 1.0, sigEmotionalOnly: 1.0, sigLengthFit: 1.0, sigFrontLoad: 1.0,
	},
	models.PageIntentService: {
		sigLocation: 1.0, sigTopicClarity: 1.2, sigYearModifier: 0.4,
		sigExpertiseCue: 1.0, sigKeywordCover: 1.0, sigExactPhrase: 1.0,
		sigCommercialVerb: 0.8, sigBrandMention: 0.8, sigQuestionFormat: 1.0,
		sigHypeDensity: 1.0, sigEmotionalOnly: 1.0, sigLengthFit: 1.0, sigFrontLoad: 1.0,
	},
	models.PageIntentComparison: {
		sigLocation: 0.5, sigTopicClarity: 1.0, sigYearModifier: 1.0,
		sigExpertiseCue: 0.5, sigKeywordCover: 1.0, sigExactPhrase: 0.8,
		sigCommercialVerb: 0.4, sigBrandMention: 0.5, sigQuestionFormat: 0.1,
		sigHypeDensity: 1.2, sigEmotionalOnly: 1.0, sigLengthFit: 1.0, sigFrontLoad: 0.8,
	},
	models.PageIntentInformational: {
		sigLocation: 0.3, sigTopicClarity: 1.0, sigYearModifier: 1.2,
		sigExpertiseCue: 0.6, sigKeywordCover: 1.0, sigExactPhrase: 0.8,
		sigCommercialVerb: 0.2, sigBrandMention: 0.4, sigQuestionFormat: 0.5,
		sigHypeDensity: 1.0, sigEmotionalOnly: 0.8, sigLengthFit: 1.0, sigFrontLoad: 1.0,
	},
	models.PageIntentCaseStudy: {
		sigLocation: 0.6, sigTopicClarity: 0.8, sigYearModifier: 0.6,
		sigExpertiseCue: 1.0, sigKeywordCover: 0.8, sigExactPhrase: 0.6,
		sigCommercialVerb: 0.3, sigBrandMention: 1.2, sigQuestionFormat: 0.8,
		sigHypeDensity: 1.0, sigEmotionalOnly: 0.6, sigLengthFit: 1.0, sigFrontLoad: 0.6,
	},
}

// intentFloors clamp scores up so a plausible heading for a correctly
// classified intent never reads as a literal zero.
var intentFloors = map[models.PageIntent]int{
	models.PageIntentMoney:         50,
	models.PageIntentService:       45,
	models.PageIntentComparison:    40,
	models.PageIntentInformational: 35,
	models.PageIntentCaseStudy:     55,
}

// intentRules detect page intent from candidate text, first-match-wins.
var intentRules = []struct {
	pattern *regexp.Regexp
	intent  models.PageIntent
}{
	{regexp.MustCompile(`(?i)case stud|before and after|our work|testimonial`), models.PageIntentCaseStudy},
	{regexp.MustCompile(`(?i)\bvs\b|versus|compar|alternatives`), models.PageIntentComparison},
	{regexp.MustCompile(`(?i)cost|price|pricing|quote|hire|book|buy|deal|offer|near me`), models.PageIntentMoney},
	{regexp.MustCompile(`(?i)repair|install|servic|cleaning|maintenance|replacement|emergency`), models.PageIntentService},
	{regexp.MustCompile(`(?i)^how|^what|^why|guide|tips|explained`), models.PageIntentInformational},
}

// DetectIntent classifies a candidate heading by ordered regex matching,
// defaulting to service intent.
func DetectIntent(text string) models.PageIntent {
	for _, rule := range intentRules {
		if rule.pattern.MatchString(text) {
			return rule.intent
		}
	}
	return models.PageIntentService
}

// Word lists behind individual signals.
var (
	topicClarityWords = []string{"repair", "install", "installation", "replacement", "cleaning", "maintenance", "servicing", "emergency", "cost", "guide", "survey", "inspection"}
	expertiseCues     = []string{"certified", "licensed", "accredited", "qualified", "insured", "gas safe", "expert", "experienced", "years of"}
	commercialVerbs   = []string{"get", "book", "hire", "request", "call", "compare", "buy", "order", "schedule", "claim"}
	hypeWords         = []string{"best", "ultimate", "amazing", "incredible", "unbeatable", "top-rated", "perfect", "#1", "cheapest", "greatest"}
	emotionalPhrases  = []string{"you can trust", "peace of mind", "stress-free", "hassle-free", "dream"}
	questionStarters  = []string{"how", "what", "why", "when", "where", "who", "can", "should", "is", "are", "do", "does"}
	yearPattern       = regexp.MustCompile(`\b20\d{2}\b`)
)

// lengthBands maps heading kind to its sweet-spot character range.
var lengthBands = map[models.HeadingKind][2]int{
	models.KindTitle: {45, 60},
	models.KindH1:    {35, 75},
	models.KindMeta:  {120, 160},
}

// HeadingScorer scores candidate title/H1/meta strings against a
// keyword+location+intent context. Stateless.
type HeadingScorer interface {
	Score(candidates []string, ctx models.ScoreContext) []models.ScoreResult
	ValidateTitleH1Alignment(title, h1 string, ctx models.ScoreContext) *AlignmentResult
}

// alignmentPenalty is deducted from a misaligned H1's score.
const alignmentPenalty = 25

// AlignmentResult is the verdict of the title/H1 alignment check. On a
// misalignment, H1Score is the H1's standalone score and AdjustedH1Score
// is that score with the penalty applied, clamped to the intent floor.
type AlignmentResult struct {
	Aligned         bool
	Penalty         int
	H1Score         int
	AdjustedH1Score int
	SuggestedH1     string
	Reason          string
}

type headingScorer struct{}

// NewHeadingScorer creates a stateless HeadingScorer.
func NewHeadingScorer() HeadingScorer {
	return &headingScorer{}
}

// Score scores every candidate, sorts descending (ties keep input order),
// and marks the top entry recommended.
func (s *headingScorer) Score(candidates []string, ctx models.ScoreContext) []models.ScoreResult {
	results := make([]models.ScoreResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, s.scoreOne(c, ctx))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > 0 {
		results[0].Recommended = true
	}
	return results
}

// scoreOne applies the additive signal model to one candidate.
func (s *headingScorer) scoreOne(text string, ctx models.ScoreContext) models.ScoreResult {
	intent := ctx.Intent
	if intent == "" {
		intent = DetectIntent(text)
	}
	weights := intentWeights[intent]
	kind := ctx.Kind
	if kind == "" {
		kind = models.KindTitle
	}

	result := models.ScoreResult{Text: text, Intent: intent}
	lower := strings.ToLower(text)
	total := float64(scoreBase)

	apply := func(signal string, points float64, reason string) {
		w := weights[signal]
		if points == 0 || w == 0 {
			return
		}
		total += points * w
		if points > 0 {
			result.Reasons = append(result.Reasons, reason)
		} else {
			result.Warnings = append(result.Warnings, reason)
		}
	}

	// Location presence, penalised when absent for commercial intents.
	if ctx.Location != "" {
		if strings.Contains(lower, strings.ToLower(ctx.Location)) {
			apply(sigLocation, 15, fmt.Sprintf("mentions location %q", ctx.Location))
		} else {
			apply(sigLocation, -8, fmt.Sprintf("missing location %q", ctx.Location))
		}
	}

	if ContainsAny(lower, topicClarityWords...) {
		apply(sigTopicClarity, 10, "topic-clarity keyword present")
	}

	if yearPattern.MatchString(text) {
		apply(sigYearModifier, 6, "year modifier present")
	}

	if ContainsAny(lower, expertiseCues...) {
		apply(sigExpertiseCue, 8, "expertise cue present")
	}

	s.applyKeywordSignals(&result, apply, lower, ctx, intent)

	if hasCommercialVerb(lower) {
		apply(sigCommercialVerb, 8, "commercial verb present")
	} else if kind == models.KindH1 && (intent == models.PageIntentMoney || intent == models.PageIntentService) {
		apply(sigCommercialVerb, -10, "H1 lacks a commercial verb")
	}

	if ctx.Brand != "" && strings.Contains(lower, strings.ToLower(ctx.Brand)) {
		apply(sigBrandMention, 5, "brand mentioned")
	}

	if isQuestionFormat(lower) {
		apply(sigQuestionFormat, -8, "question-format heading")
	}

	if countMatches(lower, hypeWords) >= 2 {
		apply(sigHypeDensity, -12, "hype-word density too high")
	}

	if ContainsAny(lower, emotionalPhrases...) && !ContainsAny(lower, topicClarityWords...) {
		apply(sigEmotionalOnly, -8, "emotional stock phrase without substance")
	}

	apply(sigLengthFit, lengthFit(len(text), kind), lengthReason(len(text), kind))

	if frontLoaded(lower, ctx.FocusKeyword) {
		apply(sigFrontLoad, 8, "focus keyword front-loaded")
	}

	floor := intentFloors[intent]
	score := int(math.Round(total))
	if score < floor {
		score = floor
	}
	if score > 100 {
		score = 100
	}
	result.Score = score
	result.Tier = tierFor(score)
	return result
}

// applyKeywordSignals handles bag-of-words coverage (tiered, with a
// penalty only for commercial intents) and the exact contiguous match.
func (s *headingScorer) applyKeywordSignals(result *models.ScoreResult, apply func(string, float64, string), lower string, ctx models.ScoreContext, intent models.PageIntent) {
	keyword := strings.ToLower(strings.TrimSpace(ctx.FocusKeyword))
	if keyword == "" {
		return
	}

	kwTokens := tokenPattern.FindAllString(keyword, -1)
	if len(kwTokens) == 0 {
		return
	}
	covered := 0
	for _, tok := range kwTokens {
		if strings.Contains(lower, tok) {
			covered++
		}
	}
	coverage := float64(covered) / float64(len(kwTokens))

	switch {
	case coverage >= 0.9:
		apply(sigKeywordCover, 18, "full keyword coverage")
	case coverage >= 0.6:
		apply(sigKeywordCover, 10, "partial keyword coverage")
	case coverage >= 0.35:
		apply(sigKeywordCover, 4, "weak keyword coverage")
	case intent == models.PageIntentMoney || intent == models.PageIntentService:
		apply(sigKeywordCover, -10, "focus keyword missing")
	}

	if strings.Contains(lower, keyword) {
		apply(sigExactPhrase, 12, "exact keyphrase match")
	}
}

func hasCommercialVerb(lower string) bool {
	for _, verb := range commercialVerbs {
		if strings.HasPrefix(lower, verb+" ") || strings.Contains(lower, " "+verb+" ") {
			return true
		}
	}
	return false
}

func isQuestionFormat(lower string) bool {
	if strings.HasSuffix(strings.TrimSpace(lower), "?") {
		return true
	}
	first := strings.SplitN(strings.TrimSpace(lower), " ", 2)[0]
	for _, starter := range questionStarters {
		if first == starter {
			return true
		}
	}
	return false
}

func countMatches(lower string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}

// lengthFit scores how well the length sits in the kind's sweet spot:
// in band +12, within 10 characters of it +6, further out -6.
func lengthFit(length int, kind models.HeadingKind) float64 {
	band := lengthBands[kind]
	switch {
	case length >= band[0] && length <= band[1]:
		return 12
	case length >= band[0]-10 && length <= band[1]+10:
		return 6
	default:
		return -6
	}
}

func lengthReason(length int, kind models.HeadingKind) string {
	band := lengthBands[kind]
	if length >= band[0] && length <= band[1] {
		return fmt.Sprintf("length %d fits the %s sweet spot", length, kind)
	}
	return fmt.Sprintf("length %d outside the %s sweet spot (%d-%d)", length, kind, band[0], band[1])
}

// frontLoaded reports whether the first token of the text belongs to the
// focus keyword.
func frontLoaded(lower, focusKeyword string) bool {
	if focusKeyword == "" {
		return false
	}
	first := tokenPattern.FindString(lower)
	if first == "" {
		return false
	}
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(focusKeyword), -1) {
		if tok == first {
			return true
		}
	}
	return false
}

func tierFor(score int) models.ScoreTier {
	switch {
	case score >= 85:
		return models.TierBest
	case score >= 72:
		return models.TierGood
	case score >= 58:
		return models.TierOK
	default:
		return models.TierRisky
	}
}

// ValidateTitleH1Alignment verifies that an H1 carries the service and
// location whenever the title carries both. Misalignment costs 25 points
// and yields a corrected H1 suggestion.
func (s *headingScorer) ValidateTitleH1Alignment(title, h1 string, ctx models.ScoreContext) *AlignmentResult {
	service := strings.ToLower(strings.TrimSpace(ctx.FocusKeyword))
	location := strings.ToLower(strings.TrimSpace(ctx.Location))
	if service == "" || location == "" {
		return &AlignmentResult{Aligned: true}
	}

	titleLower := strings.ToLower(title)
	if !strings.Contains(titleLower, service) || !strings.Contains(titleLower, location) {
		return &AlignmentResult{Aligned: true}
	}

	h1Lower := strings.ToLower(h1)
	hasService := strings.Contains(h1Lower, service)
	hasLocation := strings.Contains(h1Lower, location)
	if hasService && hasLocation {
		return &AlignmentResult{Aligned: true}
	}

	var suggested string
	switch {
	case !hasService && !hasLocation:
		suggested = fmt.Sprintf("%s in %s", TitleCase(service), TitleCase(location))
	case !hasLocation:
		suggested = strings.TrimSpace(h1) + " in " + TitleCase(location)
	default:
		suggested = TitleCase(service) + " - " + strings.TrimSpace(h1)
	}

	h1Ctx := ctx
	h1Ctx.Kind = models.KindH1
	h1Result := s.scoreOne(h1, h1Ctx)
	adjusted := h1Result.Score - alignmentPenalty
	if floor := intentFloors[h1Result.Intent]; adjusted < floor {
		adjusted = floor
	}

	return &AlignmentResult{
		Aligned:         false,
		Penalty:         alignmentPenalty,
		H1Score:         h1Result.Score,
		AdjustedH1Score: adjusted,
		SuggestedH1:     suggested,
		Reason:          "title carries service and location but the H1 does not",
	}
}
