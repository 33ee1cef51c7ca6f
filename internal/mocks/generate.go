// Package mocks provides mock implementations of the service ports.
//
// The mocks are generated with go.uber.org/mock (gomock). To regenerate them
// after an interface change, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockProfileAPI(ctrl)
//	api.EXPECT().FetchProfile(gomock.Any(), "76561197960287930").Return(profile, nil)
package mocks

// Generate mock for ProfileAPI interface from internal/core package.
// This creates MockProfileAPI with methods: ResolveVanity, FetchProfile
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_api_mock.go github.com/steamlens/steamlens/internal/core ProfileAPI

// Generate mock for CacheRepository interface from internal/core package.
// This creates MockCacheRepository with methods: Set, Get, Delete, Health
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/steamlens/steamlens/internal/core CacheRepository

// Generate mock for VanityResolver interface from internal/steamid package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=vanity_resolver_mock.go github.com/steamlens/steamlens/internal/steamid VanityResolver

// Generate mock for the metrics sink used by the profile services.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=metrics_sink_mock.go github.com/steamlens/steamlens/internal/observability/statsd Sink
