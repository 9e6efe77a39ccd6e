package meta

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta/metaclient/mocks"
	"github.com/vfg2006/ads-refresh-engine/internal/config"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
	"go.uber.org/mock/gomock"
)

func newIntegrator(ctrl *gomock.Controller) (*MetaIntegrator, *mocks.MockClient) {
	client := mocks.NewMockClient(ctrl)
	return New(&config.Config{}, client), client
}

func TestEnrichAdsResolvesMediaWithFallbackChain(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator, client := newIntegrator(ctrl)
	ctx := context.Background()

	ads := map[string]*metadomain.AdWithCreative{
		"ad_direct": {
			ID:          "ad_direct",
			Name:        "Anúncio com imagem direta",
			Status:      "ACTIVE",
			CreatedTime: "2025-07-15T10:30:00-0300",
			Creative:    &metadomain.AdCreative{ImageURL: "https://cdn/imagem.jpg"},
		},
		"ad_story": {
			ID:     "ad_story",
			Name:   "Anúncio de publicação",
			Status: "ACTIVE",
			Creative: &metadomain.AdCreative{
				EffectiveObjectStoryID: "page_1_post_9",
			},
		},
		"ad_thumb": {
			ID:     "ad_thumb",
			Name:   "Anúncio só com thumbnail",
			Status: "PAUSED",
			Creative: &metadomain.AdCreative{
				ObjectStoryID: "page_1_post_10",
				ThumbnailURL:  "https://cdn/thumb.jpg",
			},
		},
		"ad_sem_criativo": {
			ID:   "ad_sem_criativo",
			Name: "Anúncio sem criativo",
		},
	}

	client.EXPECT().
		GetAdsWithCreatives(gomock.Any(), "token", []string{"ad_direct", "ad_story", "ad_thumb", "ad_sem_criativo"}).
		Return(ads, nil, nil)

	// A publicação de ad_story resolve para um permalink
	client.EXPECT().
		GetStory(gomock.Any(), "token", "page_1_post_9").
		Return(&metadomain.Story{ID: "page_1_post_9", PermalinkURL: "https://facebook.com/post/9"}, nil, nil)

	// A de ad_thumb vem vazia e o thumbnail é o último recurso
	client.EXPECT().
		GetStory(gomock.Any(), "token", "page_1_post_10").
		Return(&metadomain.Story{ID: "page_1_post_10"}, nil, nil)

	enriched, err := integrator.EnrichAds(ctx, "token", []string{"ad_direct", "ad_story", "ad_thumb", "ad_sem_criativo"}, nil)
	require.NoError(t, err)
	require.Len(t, enriched, 4)

	direct := enriched["ad_direct"]
	assert.Equal(t, "Anúncio com imagem direta", direct.Name)
	assert.Equal(t, "ACTIVE", direct.Status)
	assert.Equal(t, "image", direct.Format)
	assert.Equal(t, "https://cdn/imagem.jpg", direct.MediaURL)
	require.NotNil(t, direct.CreatedTime)
	assert.Equal(t, 2025, direct.CreatedTime.Year())

	assert.Equal(t, "https://facebook.com/post/9", enriched["ad_story"].MediaURL)
	assert.Equal(t, "https://cdn/thumb.jpg", enriched["ad_thumb"].MediaURL)

	// Sem criativo não há mídia nem formato resolvido, mas nome e status valem
	semCriativo := enriched["ad_sem_criativo"]
	assert.Empty(t, semCriativo.MediaURL)
	assert.Equal(t, "unknown", semCriativo.Format)
	assert.Equal(t, "Anúncio sem criativo", semCriativo.Name)
}

func TestEnrichAdsToleratesStoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator, client := newIntegrator(ctrl)

	ads := map[string]*metadomain.AdWithCreative{
		"ad_1": {
			ID:   "ad_1",
			Name: "Anúncio",
			Creative: &metadomain.AdCreative{
				ObjectStoryID: "page_1_post_1",
				ThumbnailURL:  "https://cdn/thumb.jpg",
			},
		},
	}

	client.EXPECT().
		GetAdsWithCreatives(gomock.Any(), "token", []string{"ad_1"}).
		Return(ads, nil, nil)
	client.EXPECT().
		GetStory(gomock.Any(), "token", "page_1_post_1").
		Return(nil, nil, assert.AnError)

	enriched, err := integrator.EnrichAds(context.Background(), "token", []string{"ad_1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/thumb.jpg", enriched["ad_1"].MediaURL)
}

func TestEnrichAdsForwardsUsageToObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator, client := newIntegrator(ctrl)

	usage := &domain.UsageSnapshot{AccountID: "act_123", Utilization: 42}
	client.EXPECT().
		GetAdsWithCreatives(gomock.Any(), "token", gomock.Any()).
		Return(map[string]*metadomain.AdWithCreative{}, usage, nil)

	var observed *domain.UsageSnapshot
	_, err := integrator.EnrichAds(context.Background(), "token", []string{"ad_1"}, func(s *domain.UsageSnapshot) {
		observed = s
	})
	require.NoError(t, err)
	require.NotNil(t, observed)
	assert.Equal(t, 42.0, observed.Utilization)
}

func TestFactoryAdDailyInsight(t *testing.T) {
	t.Run("Linha completa é convertida com valores em centavos", func(t *testing.T) {
		row := &metadomain.AdInsightRow{
			AdID:         "ad_1",
			AdName:       "Anúncio de Verão",
			CampaignID:   "c_1",
			AdsetID:      "as_1",
			DateStart:    "2025-08-25",
			Impressions:  "1000",
			Clicks:       "50",
			UniqueClicks: "40",
			Spend:        "149.90",
			Reach:        "800",
			Currency:     "BRL",
			Actions: []metadomain.ActionEntry{
				{ActionType: "omni_purchase", Value: "7"},
			},
			ActionValues: []metadomain.ActionEntry{
				{ActionType: "omni_purchase", Value: "350.50"},
			},
		}

		record := FactoryAdDailyInsight(row)
		require.NotNil(t, record)

		assert.Equal(t, "ad_1", record.AdID)
		assert.Equal(t, time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC), record.Date)
		assert.Equal(t, int64(1000), record.Impressions)
		assert.Equal(t, int64(14990), record.SpendCents)
		assert.Equal(t, int64(800), record.Reach)
		assert.Equal(t, "BRL", record.Currency)
		assert.Equal(t, int64(7), record.Purchases())
		assert.Equal(t, int64(35050), record.PurchaseValueCents())
	})

	t.Run("Linha sem ad_id é descartada", func(t *testing.T) {
		assert.Nil(t, FactoryAdDailyInsight(&metadomain.AdInsightRow{DateStart: "2025-08-25"}))
		assert.Nil(t, FactoryAdDailyInsight(nil))
	})

	t.Run("Data inválida descarta a linha", func(t *testing.T) {
		row := &metadomain.AdInsightRow{AdID: "ad_1", DateStart: "25/08/2025"}
		assert.Nil(t, FactoryAdDailyInsight(row))
	})

	t.Run("Campos numéricos malformados viram zero", func(t *testing.T) {
		row := &metadomain.AdInsightRow{
			AdID:        "ad_1",
			DateStart:   "2025-08-25",
			Impressions: "n/a",
			Spend:       "",
		}

		record := FactoryAdDailyInsight(row)
		require.NotNil(t, record)
		assert.Zero(t, record.Impressions)
		assert.Zero(t, record.SpendCents)
	})
}
