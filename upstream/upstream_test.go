package upstream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-ai/roc/domain"
)

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry()
	fake := &FakeClient{}
	reg.Register(domain.ServiceWeather, fake)

	spec := domain.ServiceCallSpec{Kind: domain.ServiceWeather, Key: "sf-bay"}
	result := reg.Dispatch(context.Background(), spec)

	require.True(t, result.OK)
	require.Len(t, fake.Calls, 1)
}

func TestRegistryDispatchUnregistered(t *testing.T) {
	reg := NewRegistry()
	result := reg.Dispatch(context.Background(), domain.ServiceCallSpec{Kind: domain.ServicePOI, Key: "x"})

	require.False(t, result.OK)
	require.Equal(t, domain.ErrorInternal, result.ErrKind)
}

func TestProviderForKind(t *testing.T) {
	require.Equal(t, "hints", string(ProviderForKind(domain.ServiceInputHints)))
	require.Equal(t, "weather", string(ProviderForKind(domain.ServiceWeather)))
}
