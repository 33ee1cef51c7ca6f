package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/steamlens/steamlens/internal/core"
	apperrors "github.com/steamlens/steamlens/internal/errors"
	"github.com/steamlens/steamlens/internal/mocks"
	"github.com/steamlens/steamlens/internal/observability/metrics"
	"github.com/steamlens/steamlens/internal/testutil"
	"github.com/steamlens/steamlens/internal/upstream"
)

// steppingClock advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	now := testutil.TestTime()
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func newProfileService(api core.ProfileAPI, cache profileCache) *ProfileService {
	return NewProfileService(ProfileServiceOptions{
		API:     api,
		Cache:   cache,
		Runtime: ProfileRuntime{Now: steppingClock(250 * time.Millisecond)},
	})
}

func TestProfileService_ResolveID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		setup   func(api *mocks.MockProfileAPI)
		want    string
		wantMsg string
	}{
		{
			name:    "empty path",
			path:    "   ",
			setup:   func(*mocks.MockProfileAPI) {},
			wantMsg: MsgMissingProfile,
		},
		{
			name:  "numeric reference",
			path:  "https://steamcommunity.com/profiles/" + testutil.OwnerID,
			setup: func(*mocks.MockProfileAPI) {},
			want:  testutil.OwnerID,
		},
		{
			name:    "numeric reference that is not canonical",
			path:    "profiles/123",
			setup:   func(*mocks.MockProfileAPI) {},
			wantMsg: MsgInvalidProfile,
		},
		{
			name:    "unrecognised shape",
			path:    "gabe",
			setup:   func(*mocks.MockProfileAPI) {},
			wantMsg: MsgInvalidProfile,
		},
		{
			name: "vanity reference",
			path: "id/gabe",
			setup: func(api *mocks.MockProfileAPI) {
				api.EXPECT().ResolveVanity(gomock.Any(), "gabe").Return(testutil.OwnerID, nil)
			},
			want: testutil.OwnerID,
		},
		{
			name: "vanity resolving to a non canonical id",
			path: "id/gabe",
			setup: func(api *mocks.MockProfileAPI) {
				api.EXPECT().ResolveVanity(gomock.Any(), "gabe").Return("42", nil)
			},
			wantMsg: MsgInvalidProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			api := mocks.NewMockProfileAPI(ctrl)
			tt.setup(api)

			got, err := newProfileService(api, nil).ResolveID(context.Background(), tt.path)
			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				assert.Equal(t, tt.wantMsg, apperrors.Message(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfileService_ResolveIDPropagatesUpstreamError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockProfileAPI(ctrl)
	upstreamErr := apperrors.Wrap(&upstream.StatusError{StatusCode: 404, Body: "no such vanity"},
		apperrors.ErrCodeUpstream, "Profile API request failed")
	api.EXPECT().ResolveVanity(gomock.Any(), "nobody").Return("", upstreamErr)

	_, err := newProfileService(api, nil).ResolveID(context.Background(), "id/nobody")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))

	var statusErr *upstream.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "no such vanity", statusErr.Body)
}

func TestProfileService_LookupSanitizes(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockProfileAPI(ctrl)
	profile := testutil.NewProfile(testutil.OwnerID).
		WithPersonaName("<i>Owner</i>").
		WithFriend(testutil.FriendID, "Friend", testutil.TestTime(), 1).
		WithDeletedFriend(testutil.OtherID, testutil.TestTime()).
		Build()

	api.EXPECT().ResolveVanity(gomock.Any(), "gabe").Return(testutil.OwnerID, nil).Times(1)
	api.EXPECT().FetchProfile(gomock.Any(), testutil.OwnerID).Return(profile, nil).Times(1)

	res, err := newProfileService(api, nil).Lookup(context.Background(), "steamcommunity.com/id/gabe/")
	require.NoError(t, err)

	assert.Equal(t, testutil.OwnerID, res.SteamID)
	assert.Equal(t, metrics.SourceUpstream, res.Source)
	assert.True(t, res.Vanity)
	assert.Equal(t, 250*time.Millisecond, res.Elapsed)
	assert.Equal(t, testutil.TestTime().Add(500*time.Millisecond), res.FetchedAt)

	assert.NotContains(t, res.Profile.Friends, testutil.OtherID)
	assert.NotContains(t, res.Profile.Bans, testutil.OtherID)
	owner, ok := res.Profile.Primary()
	require.True(t, ok)
	assert.Equal(t, "Owner", owner.PersonaName)
}

func TestProfileService_LookupFetchError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockProfileAPI(ctrl)
	api.EXPECT().FetchProfile(gomock.Any(), testutil.OwnerID).
		Return(nil, apperrors.Wrap(errors.New("bad shape"), apperrors.ErrCodeSchema, "Unexpected profile response"))

	_, err := newProfileService(api, nil).Lookup(context.Background(), "profiles/"+testutil.OwnerID)
	require.Error(t, err)
	assert.True(t, apperrors.IsSchema(err))
	assert.Contains(t, err.Error(), testutil.OwnerID)
}

func TestProfileService_LookupEmitsMetrics(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockProfileAPI(ctrl)
	sink := mocks.NewMockSink(ctrl)

	api.EXPECT().FetchProfile(gomock.Any(), testutil.OwnerID).
		Return(testutil.NewProfile(testutil.OwnerID).Build(), nil)

	tags := map[string]string{"result": "success", "source": "upstream", "vanity": "false"}
	gomock.InOrder(
		sink.EXPECT().Count(metrics.LookupCount, int64(1), tags),
		sink.EXPECT().Timing(metrics.FetchTiming, 250*time.Millisecond, tags),
	)
	sink.EXPECT().Count(metrics.LookupCount, int64(1), map[string]string{
		"result": "error", "vanity": "false", "error_class": "validation",
	})

	svc := NewProfileService(ProfileServiceOptions{
		API:     api,
		Runtime: ProfileRuntime{Metrics: sink, Now: steppingClock(250 * time.Millisecond)},
	})

	_, err := svc.Lookup(context.Background(), "profiles/"+testutil.OwnerID)
	require.NoError(t, err)

	_, err = svc.Lookup(context.Background(), "")
	require.Error(t, err)
}

func TestProfileService_LookupUsesCache(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockProfileAPI(ctrl)
	repo := mocks.NewMockCacheRepository(ctrl)
	cache := core.NewProfileCacheService(core.ProfileCacheServiceOptions{Cache: repo})

	key := "profile:json:" + testutil.OwnerID
	cached := testutil.NewProfile(testutil.OwnerID).WithPersonaName("From cache").JSON()

	api.EXPECT().FetchProfile(gomock.Any(), gomock.Any()).Times(0)
	repo.EXPECT().Get(gomock.Any(), key).Return(cached, nil)

	res, err := newProfileService(api, cache).Lookup(context.Background(), "profiles/"+testutil.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, metrics.SourceCache, res.Source)
	owner, _ := res.Profile.Primary()
	assert.Equal(t, "From cache", owner.PersonaName)
}

func TestProfileService_LookupCacheMissStoresSanitizedProfile(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockProfileAPI(ctrl)
	repo := mocks.NewMockCacheRepository(ctrl)
	cache := core.NewProfileCacheService(core.ProfileCacheServiceOptions{Cache: repo})

	key := "profile:json:" + testutil.OwnerID
	profile := testutil.NewProfile(testutil.OwnerID).
		WithDeletedFriend(testutil.OtherID, testutil.TestTime()).
		Build()

	repo.EXPECT().Get(gomock.Any(), key).Return(nil, errors.New("redis down"))
	api.EXPECT().FetchProfile(gomock.Any(), testutil.OwnerID).Return(profile, nil)
	repo.EXPECT().Set(gomock.Any(), key, gomock.Any(), 5*time.Minute).
		DoAndReturn(func(_ context.Context, _ string, value []byte, _ time.Duration) error {
			assert.NotContains(t, string(value), testutil.OtherID)
			return errors.New("redis down")
		})

	res, err := newProfileService(api, cache).Lookup(context.Background(), "profiles/"+testutil.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, metrics.SourceUpstream, res.Source)
}

func TestProfileService_VanityNamesAreNotCached(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockProfileAPI(ctrl)
	repo := mocks.NewMockCacheRepository(ctrl)
	cache := core.NewProfileCacheService(core.ProfileCacheServiceOptions{Cache: repo})

	api.EXPECT().ResolveVanity(gomock.Any(), "gabe").Return(testutil.OwnerID, nil).Times(2)
	repo.EXPECT().Get(gomock.Any(), "profile:json:"+testutil.OwnerID).Return(nil, nil).Times(2)
	api.EXPECT().FetchProfile(gomock.Any(), testutil.OwnerID).
		Return(testutil.NewProfile(testutil.OwnerID).Build(), nil).Times(2)
	repo.EXPECT().Set(gomock.Any(), "profile:json:"+testutil.OwnerID, gomock.Any(), gomock.Any()).
		Return(nil).Times(2)

	svc := newProfileService(api, cache)
	for range 2 {
		_, err := svc.Lookup(context.Background(), "id/gabe")
		require.NoError(t, err)
	}
}

func TestProfileService_LookupCachesUnderRequestedID(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockProfileAPI(ctrl)
	repo := mocks.NewMockCacheRepository(ctrl)
	cache := core.NewProfileCacheService(core.ProfileCacheServiceOptions{Cache: repo})

	key := "profile:json:" + testutil.OwnerID
	// Upstream answered with a steam_id other than the one requested.
	mismatched := testutil.NewProfile(testutil.FriendID).Build()

	var stored []byte
	gomock.InOrder(
		repo.EXPECT().Get(gomock.Any(), key).Return(nil, nil),
		api.EXPECT().FetchProfile(gomock.Any(), testutil.OwnerID).Return(mismatched, nil),
		repo.EXPECT().Set(gomock.Any(), key, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value []byte, _ time.Duration) error {
				stored = value
				return nil
			}),
		repo.EXPECT().Get(gomock.Any(), key).DoAndReturn(func(context.Context, string) ([]byte, error) {
			return stored, nil
		}),
	)

	svc := newProfileService(api, cache)
	res, err := svc.Lookup(context.Background(), "profiles/"+testutil.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, metrics.SourceUpstream, res.Source)

	res, err = svc.Lookup(context.Background(), "profiles/"+testutil.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, metrics.SourceCache, res.Source)
	assert.Equal(t, testutil.OwnerID, res.SteamID)
}
