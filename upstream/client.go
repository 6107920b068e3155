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

// Package upstream defines the abstract UpstreamClient collaborator
// (component C2) the core dispatches ServiceCallSpecs to, its structured
// per-ServiceKind payloads, and one concrete client implementation per
// kind. None of these implementations are required by the core's
// contract — callers may supply their own — but they give the module a
// working, testable default.
package upstream

import (
	"context"

	"github.com/wayfarer-ai/roc/config"
	"github.com/wayfarer-ai/roc/domain"
)

// Client is the single abstract operation every upstream collaborator
// implements. Implementations must honor ctx cancellation promptly and
// must not block indefinitely.
type Client interface {
	Call(ctx context.Context, spec domain.ServiceCallSpec) domain.ServiceResult
}

// ProviderForKind maps a ServiceKind to the config.Provider used for rate
// limiting and client dispatch; the two enums diverge only in naming
// (InputHints <-> hints).
func ProviderForKind(k domain.ServiceKind) config.Provider {
	switch k {
	case domain.ServiceWeather:
		return config.ProviderWeather
	case domain.ServicePOI:
		return config.ProviderPOI
	case domain.ServiceNavigation:
		return config.ProviderNavigation
	case domain.ServiceTraffic:
		return config.ProviderTraffic
	case domain.ServiceCrowd:
		return config.ProviderCrowd
	case domain.ServiceInputHints:
		return config.ProviderHints
	default:
		return config.ProviderGeocode
	}
}

// DailyForecast is the WeatherClient payload shape for one day.
type DailyForecast struct {
	Date          string
	Text          string
	TempNightC    float64
	TempDayC      float64
	Wind          string
	Humidity      float64
	Precipitation float64
}

// POI is the POIClient payload shape for one point of interest.
type POI struct {
	ID       string
	Name     string
	Address  string
	Category string
	Rating   *float64
	Price    *float64
	Hours    string
	Coords   *Coordinates
	Indoor   *bool
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lng float64
}

// RouteCandidate is the NavigationClient payload shape for one candidate
// route between an origin and destination.
type RouteCandidate struct {
	DistanceMeters   float64
	DurationSeconds  float64
	Description      string
	Congestion       string
}

// TrafficStatus is the TrafficClient payload shape.
type TrafficStatus struct {
	Level       string
	Description string
	Timestamp   string
}

// HintCandidate is the HintsClient payload shape.
type HintCandidate struct {
	Name     string
	District string
	Coord    *Coordinates
}

// CrowdLevel is the experimental CrowdClient payload shape: a first-class
// ServiceKind, optional until a real provider exists.
type CrowdLevel struct {
	Level       string
	Description string
}

// WeatherClient is the Reasoner-adjacent collaborator for forecasts.
type WeatherClient interface {
	Forecast(ctx context.Context, city string) ([]DailyForecast, error)
}

// POIClient searches points of interest, constrained to the configured
// region.
type POIClient interface {
	Search(ctx context.Context, keyword, region string, category string, limit int) ([]POI, error)
}

// NavigationClient returns candidate routes between two points.
type NavigationClient interface {
	Route(ctx context.Context, origin, destination, mode string) ([]RouteCandidate, error)
}

// TrafficClient reports current traffic status for an area.
type TrafficClient interface {
	Status(ctx context.Context, areaOrBox string) (TrafficStatus, error)
}

// HintsClient returns input-completion style suggestions for a keyword.
type HintsClient interface {
	Tips(ctx context.Context, keyword, region string, cityLimit int) ([]HintCandidate, error)
}

// CrowdClient reports current crowd level for a location.
type CrowdClient interface {
	Status(ctx context.Context, location string) (CrowdLevel, error)
}
