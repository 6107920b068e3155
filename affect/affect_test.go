package affect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-ai/roc/domain"
)

func TestExtractCompanionsRomantic(t *testing.T) {
	c, _, _, _ := Extract("Planning an anniversary trip with my girlfriend")
	require.Equal(t, domain.CompanionsRomantic, c.Type)
	require.Equal(t, 2, c.Size)
	require.NotEmpty(t, c.PartnerLabel)
}

func TestExtractCompanionsFamilyWithCounts(t *testing.T) {
	c, _, _, _ := Extract("Traveling with my kids and my mom")
	require.Equal(t, domain.CompanionsFamily, c.Type)
	require.Equal(t, 1, c.FamilyMembers[domain.FamilyChild])
	require.Equal(t, 1, c.FamilyMembers[domain.FamilyParent])
	require.Equal(t, 3, c.Size)
}

func TestExtractCompanionsSolo(t *testing.T) {
	c, _, _, _ := Extract("I'm traveling solo this time")
	require.Equal(t, domain.CompanionsSolo, c.Type)
	require.Equal(t, 1, c.Size)
}

func TestExtractCompanionsExplicitPartySize(t *testing.T) {
	c, _, _, _ := Extract("Table for 5, we're a group of friends")
	require.Equal(t, domain.CompanionsFriends, c.Type)
	require.Equal(t, 5, c.Size)
}

func TestExtractEmotionMoodsAvoidDesires(t *testing.T) {
	_, ec, _, _ := Extract("Looking for a quiet, authentic spot, avoid anything too touristy, want real local culture")
	_, hasQuiet := ec.Moods[domain.MoodQuiet]
	_, hasAuthentic := ec.Moods[domain.MoodAuthentic]
	_, hasCommercial := ec.Avoid[domain.AvoidCommercial]
	_, hasLocalCulture := ec.Desires[domain.DesireLocalCulture]

	require.True(t, hasQuiet)
	require.True(t, hasAuthentic)
	require.True(t, hasCommercial)
	require.True(t, hasLocalCulture)
}

func TestExtractBudgetAmount(t *testing.T) {
	_, _, b, _ := Extract("We have about $2,000 for the trip")
	require.NotNil(t, b.Amount)
	require.Equal(t, int64(2000), *b.Amount)
}

func TestExtractBudgetQualitativeLevel(t *testing.T) {
	_, _, b, _ := Extract("Looking for a luxury getaway")
	require.Equal(t, domain.BudgetHigh, b.Level)
}

func TestExtractBudgetConstraintMax(t *testing.T) {
	_, _, b, _ := Extract("Spend no more than $500 total")
	require.Equal(t, domain.BudgetConstraintMax, b.Constraint)
}

func TestExtractBudgetConstraintMin(t *testing.T) {
	_, _, b, _ := Extract("We want at least a mid-range hotel")
	require.Equal(t, domain.BudgetConstraintMin, b.Constraint)
}

func TestExtractPreferenceFlags(t *testing.T) {
	_, _, _, p := Extract("Prefer outdoor, budget-friendly, and wheelchair accessible spots")
	_, hasOutdoor := p.Flags[domain.PreferOutdoor]
	_, hasBudget := p.Flags[domain.PreferBudgetFriendly]
	_, hasAccessible := p.Flags[domain.PreferAccessible]

	require.True(t, hasOutdoor)
	require.True(t, hasBudget)
	require.True(t, hasAccessible)
}

func TestExtractDeterministic(t *testing.T) {
	text := "Traveling with my wife, looking for a romantic and quiet luxury spot under $3000"
	c1, e1, b1, p1 := Extract(text)
	c2, e2, b2, p2 := Extract(text)
	require.Equal(t, c1, c2)
	require.Equal(t, e1, e2)
	require.Equal(t, b1, b2)
	require.Equal(t, p1, p2)
}

func TestExtractNoSignalsIsZeroValue(t *testing.T) {
	c, ec, b, p := Extract("Show me the weather")
	require.Equal(t, domain.CompanionsUnknown, c.Type)
	require.Empty(t, ec.Moods)
	require.Nil(t, b.Amount)
	require.Empty(t, p.Flags)
}
