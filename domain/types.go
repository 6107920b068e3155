// Copyright 2025 Wayfarer AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package domain holds the types shared across the reasoning and
// orchestration core: utterances, extracted context, thoughts, service
// call specs and results, and the per-turn and per-session records that
// accumulate them.
package domain

import "time"

// Utterance is an immutable user request.
type Utterance struct {
	Text   string
	UserID string
	TsMono time.Time
}

// CompanionsType is the closed tag of the Companions variant.
type CompanionsType string

const (
	CompanionsUnknown    CompanionsType = ""
	CompanionsSolo       CompanionsType = "solo"
	CompanionsRomantic   CompanionsType = "romantic"
	CompanionsFamily     CompanionsType = "family"
	CompanionsFriends    CompanionsType = "friends"
	CompanionsColleagues CompanionsType = "colleagues"
)

// FamilyRole enumerates the family-member roles the multiset counts.
type FamilyRole string

const (
	FamilyParent FamilyRole = "parent"
	FamilyChild  FamilyRole = "child"
	FamilyBaby   FamilyRole = "baby"
	FamilyElder  FamilyRole = "elder"
)

// Companions is a tagged variant over the ways a trip's party is composed.
// The zero value is CompanionsUnknown, which is distinct from Solo:
// absence of evidence is not evidence of being alone.
type Companions struct {
	Type CompanionsType

	// PartnerLabel is set only when Type == CompanionsRomantic.
	PartnerLabel string

	// FamilyMembers is a multiset keyed by FamilyRole. Every matched family
	// term is counted, even when Type resolved to another variant; only a
	// Family party uses the counts for Size.
	FamilyMembers map[FamilyRole]int

	// Size is the party size: an explicit count from the utterance when
	// given, otherwise 1 for Solo, 2 for Romantic, and the speaker plus the
	// counted members (at least 2) for Family. It is 0 when unknown, which
	// includes Friends and Colleagues without an explicit count.
	Size int
}

// Mood is a closed enum of the emotional tones a trip can be tagged with.
type Mood string

const (
	MoodRomantic Mood = "romantic"
	MoodCozy     Mood = "cozy"
	MoodQuiet    Mood = "quiet"
	MoodLively   Mood = "lively"
	MoodArtistic Mood = "artistic"
	MoodAuthentic Mood = "authentic"
	MoodUpscale  Mood = "upscale"
	MoodSimple   Mood = "simple"
	MoodUnique   Mood = "unique"
)

// Avoidance is a closed enum of things the user wants the plan to avoid.
type Avoidance string

const (
	AvoidCrowded    Avoidance = "crowded"
	AvoidCommercial Avoidance = "commercial"
	AvoidViral      Avoidance = "viral"
)

// Desire is a closed enum of what the user is seeking out.
type Desire string

const (
	DesireLocalCulture Desire = "local_culture"
	DesireLocalLife    Desire = "local_life"
	DesireHistory      Desire = "history"
	DesireCulture      Desire = "culture"
	DesireCuisine      Desire = "cuisine"
	DesireExperience   Desire = "experience"
)

// EmotionalContext is the affective signal extracted from an utterance.
// Any of the three sets may be empty.
type EmotionalContext struct {
	Moods   map[Mood]struct{}
	Avoid   map[Avoidance]struct{}
	Desires map[Desire]struct{}
}

// NewEmotionalContext returns an EmotionalContext with initialized,
// empty sets.
func NewEmotionalContext() EmotionalContext {
	return EmotionalContext{
		Moods:   make(map[Mood]struct{}),
		Avoid:   make(map[Avoidance]struct{}),
		Desires: make(map[Desire]struct{}),
	}
}

// BudgetLevel is a closed enum. A Budget's Level comes only from a
// qualitative keyword in the utterance; it is empty when there is none and
// is not derived from Amount.
type BudgetLevel string

const (
	BudgetLow        BudgetLevel = "low"
	BudgetMedium     BudgetLevel = "medium"
	BudgetMediumHigh BudgetLevel = "medium_high"
	BudgetHigh       BudgetLevel = "high"
)

// BudgetConstraint qualifies an explicit budget amount.
type BudgetConstraint string

const (
	BudgetConstraintNone BudgetConstraint = ""
	BudgetConstraintMin  BudgetConstraint = "min"
	BudgetConstraintMax  BudgetConstraint = "max"
)

// Budget captures the user's stated or inferred spending envelope.
type Budget struct {
	Amount     *int64
	Level      BudgetLevel
	Constraint BudgetConstraint
}

// PreferenceFlag is a closed bag of preference signals derived from the
// utterance, consumed by the answer composer's POI scoring.
type PreferenceFlag string

const (
	PreferIndoor         PreferenceFlag = "prefer_indoor"
	PreferOutdoor        PreferenceFlag = "prefer_outdoor"
	PreferLocal          PreferenceFlag = "prefer_local"
	PreferPopular        PreferenceFlag = "prefer_popular"
	PreferBudgetFriendly PreferenceFlag = "prefer_budget_friendly"
	PreferPremium        PreferenceFlag = "prefer_premium"
	PreferAccessible     PreferenceFlag = "prefer_accessible"
)

// ActivityClass is the closed enum of activity categories KeywordExtractor
// recognizes.
type ActivityClass string

const (
	ActivityShopping      ActivityClass = "shopping"
	ActivityCuisine       ActivityClass = "cuisine"
	ActivityCulture       ActivityClass = "culture"
	ActivityEntertainment ActivityClass = "entertainment"
	ActivityNature        ActivityClass = "nature"
	ActivityBusiness      ActivityClass = "business"
	ActivityFamily        ActivityClass = "family"
	ActivityLeisure       ActivityClass = "leisure"
	ActivitySightseeing   ActivityClass = "sightseeing"
)

// TimeOfDay tags a mentioned time window.
type TimeOfDay string

const (
	TimeMorning TimeOfDay = "morning"
	TimeEvening TimeOfDay = "evening"
	TimeNight   TimeOfDay = "night"
)

// Location is a place mention resolved (or not) against the canonical
// gazetteer. Unverified locations are candidates matched by shape alone.
type Location struct {
	Name       string
	Canonical  string
	Unverified bool
}

// Route is an optional {start, end} pair detected or inferred from the
// utterance.
type Route struct {
	Start Location
	End   Location
}

// KeywordHit is one recognized or candidate keyword with its priority
// weight, used by the plan resolver to budget InputHints calls.
type KeywordHit struct {
	Term     string
	Priority int
}

// ExtractedKeywords is the pure output of the KeywordExtractor.
type ExtractedKeywords struct {
	Locations     []Location
	Activities    []ActivityClass
	Days          int
	Route         *Route
	TimesOfDay    map[TimeOfDay]struct{}
	Keywords      []KeywordHit
}

// Preferences is the bag of preference flags derived by ContextExtractor.
type Preferences struct {
	Flags map[PreferenceFlag]struct{}
}

// NewPreferences returns a Preferences with an initialized, empty set.
func NewPreferences() Preferences {
	return Preferences{Flags: make(map[PreferenceFlag]struct{})}
}

// ExtractedContext bundles everything ContextExtractor produces for a
// turn, plus a free-text intent summary used by the composer prompt.
type ExtractedContext struct {
	Keywords      ExtractedKeywords
	Locations     []Location
	ActivityTypes []ActivityClass
	Days          int
	Route         *Route
	Companions    Companions
	Emotion       EmotionalContext
	Budget        Budget
	Preferences   Preferences
	IntentSummary string
}

// ServiceKind is the closed enum of upstream service families.
type ServiceKind string

const (
	ServiceWeather    ServiceKind = "weather"
	ServicePOI        ServiceKind = "poi"
	ServiceNavigation ServiceKind = "navigation"
	ServiceTraffic    ServiceKind = "traffic"
	ServiceCrowd      ServiceKind = "crowd"
	ServiceInputHints ServiceKind = "input_hints"
)

// Thought is one step of a reasoning chain. Step values are contiguous
// starting at 1 within a chain.
type Thought struct {
	Step      int
	Text      string
	Keywords  []string
	Services  map[ServiceKind]struct{}
	Rationale string
	Ts        time.Time
}

// ServiceCallSpec describes one upstream call to make. Two specs are
// equal iff Kind and Key match; the DataCollector deduplicates on that
// equality.
type ServiceCallSpec struct {
	Kind     ServiceKind
	Key      string
	Params   map[string]string
	Priority int
}

// DedupKey returns the (kind, key) identity used for deduplication.
func (s ServiceCallSpec) DedupKey() string {
	return string(s.Kind) + "\x00" + s.Key
}

// ErrorKind is the closed taxonomy of failures the core recognizes.
type ErrorKind string

const (
	ErrorInvalidInput ErrorKind = "invalid_input"
	ErrorRateLimited  ErrorKind = "rate_limited"
	ErrorTimeout      ErrorKind = "timeout"
	ErrorCanceled     ErrorKind = "canceled"
	ErrorUpstream     ErrorKind = "upstream"
	ErrorTransport    ErrorKind = "transport"
	ErrorParse        ErrorKind = "parse"
	ErrorInternal     ErrorKind = "internal"
)

// ServiceResult is the tagged Ok/Err outcome of dispatching one
// ServiceCallSpec. Exactly one is produced per spec dispatched.
type ServiceResult struct {
	Kind ServiceKind
	Key  string

	OK      bool
	Payload any

	ErrKind   ErrorKind
	Detail    string
	Retryable bool
}

// ResultBundle is the collected outcome of a plan: one list per
// ServiceKind, sorted by Key so consumers never depend on arrival order.
type ResultBundle map[ServiceKind][]ServiceResult

// PlanSpec is the output of the PlanResolver: a deduplicated set of calls
// plus bookkeeping flags.
type PlanSpec struct {
	Calls              []ServiceCallSpec
	HasUnverifiedHints bool
}

// TurnRecord is the append-only record of one request/response cycle.
type TurnRecord struct {
	ID        string
	Utterance Utterance
	Thoughts  []Thought
	Extracted ExtractedContext
	Plan      PlanSpec
	Results   ResultBundle
	Answer    string
	TsIn      time.Time
	TsOut     time.Time
}
