package affect

import "github.com/wayfarer-ai/roc/domain"

// companionRule maps a relationship term to the CompanionsType it implies
// and, where relevant, a FamilyRole it contributes to the multiset.
type companionRule struct {
	term   string
	typ    domain.CompanionsType
	family domain.FamilyRole // zero value when typ != CompanionsFamily
}

var companionRules = []companionRule{
	{term: "girlfriend", typ: domain.CompanionsRomantic},
	{term: "boyfriend", typ: domain.CompanionsRomantic},
	{term: "wife", typ: domain.CompanionsRomantic},
	{term: "husband", typ: domain.CompanionsRomantic},
	{term: "partner", typ: domain.CompanionsRomantic},
	{term: "honeymoon", typ: domain.CompanionsRomantic},
	{term: "anniversary", typ: domain.CompanionsRomantic},

	{term: "parents", typ: domain.CompanionsFamily, family: domain.FamilyParent},
	{term: "mom", typ: domain.CompanionsFamily, family: domain.FamilyParent},
	{term: "dad", typ: domain.CompanionsFamily, family: domain.FamilyParent},
	{term: "kids", typ: domain.CompanionsFamily, family: domain.FamilyChild},
	{term: "children", typ: domain.CompanionsFamily, family: domain.FamilyChild},
	{term: "son", typ: domain.CompanionsFamily, family: domain.FamilyChild},
	{term: "daughter", typ: domain.CompanionsFamily, family: domain.FamilyChild},
	{term: "baby", typ: domain.CompanionsFamily, family: domain.FamilyBaby},
	{term: "infant", typ: domain.CompanionsFamily, family: domain.FamilyBaby},
	{term: "grandparents", typ: domain.CompanionsFamily, family: domain.FamilyElder},
	{term: "grandma", typ: domain.CompanionsFamily, family: domain.FamilyElder},
	{term: "grandpa", typ: domain.CompanionsFamily, family: domain.FamilyElder},
	{term: "elderly", typ: domain.CompanionsFamily, family: domain.FamilyElder},

	{term: "friends", typ: domain.CompanionsFriends},
	{term: "buddies", typ: domain.CompanionsFriends},

	{term: "colleagues", typ: domain.CompanionsColleagues},
	{term: "coworkers", typ: domain.CompanionsColleagues},
	{term: "team offsite", typ: domain.CompanionsColleagues},

	{term: "solo", typ: domain.CompanionsSolo},
	{term: "by myself", typ: domain.CompanionsSolo},
	{term: "alone", typ: domain.CompanionsSolo},
}

var moodTerms = map[string]domain.Mood{
	"romantic":  domain.MoodRomantic,
	"cozy":      domain.MoodCozy,
	"quiet":     domain.MoodQuiet,
	"peaceful":  domain.MoodQuiet,
	"lively":    domain.MoodLively,
	"vibrant":   domain.MoodLively,
	"artistic":  domain.MoodArtistic,
	"authentic": domain.MoodAuthentic,
	"local feel": domain.MoodAuthentic,
	"upscale":   domain.MoodUpscale,
	"luxury":    domain.MoodUpscale,
	"simple":    domain.MoodSimple,
	"unique":    domain.MoodUnique,
	"off the beaten path": domain.MoodUnique,
}

var avoidTerms = map[string]domain.Avoidance{
	"crowded":        domain.AvoidCrowded,
	"crowds":         domain.AvoidCrowded,
	"touristy":       domain.AvoidCommercial,
	"commercial":     domain.AvoidCommercial,
	"tourist trap":   domain.AvoidCommercial,
	"viral":          domain.AvoidViral,
	"instagram spot": domain.AvoidViral,
	"trending":       domain.AvoidViral,
}

var desireTerms = map[string]domain.Desire{
	"local culture": domain.DesireLocalCulture,
	"local life":    domain.DesireLocalLife,
	"like a local":  domain.DesireLocalLife,
	"history":       domain.DesireHistory,
	"historical":    domain.DesireHistory,
	"culture":       domain.DesireCulture,
	"cultural":      domain.DesireCulture,
	"cuisine":       domain.DesireCuisine,
	"food scene":    domain.DesireCuisine,
	"experience":    domain.DesireExperience,
	"memorable":     domain.DesireExperience,
}

var qualitativeBudgetTerms = map[string]domain.BudgetLevel{
	"economy":    domain.BudgetLow,
	"budget":     domain.BudgetLow,
	"cheap":      domain.BudgetLow,
	"backpacker": domain.BudgetLow,
	"mid-range":  domain.BudgetMedium,
	"moderate":   domain.BudgetMedium,
	"comfortable": domain.BudgetMediumHigh,
	"upscale":    domain.BudgetHigh,
	"luxury":     domain.BudgetHigh,
	"high-end":   domain.BudgetHigh,
	"premium":    domain.BudgetHigh,
}

var preferenceTerms = map[string]domain.PreferenceFlag{
	"indoor":        domain.PreferIndoor,
	"outdoor":       domain.PreferOutdoor,
	"local":         domain.PreferLocal,
	"popular":       domain.PreferPopular,
	"famous":        domain.PreferPopular,
	"well-known":    domain.PreferPopular,
	"budget":        domain.PreferBudgetFriendly,
	"affordable":    domain.PreferBudgetFriendly,
	"premium":       domain.PreferPremium,
	"luxury":        domain.PreferPremium,
	"wheelchair":    domain.PreferAccessible,
	"accessible":    domain.PreferAccessible,
	"stroller":      domain.PreferAccessible,
}
