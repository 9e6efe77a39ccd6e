package meta

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-refresh-engine/internal/config"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

// UsageObserver recebe o snapshot de telemetria de cada resposta. O
// controlador de taxa do orquestrador é plugado aqui; nunca há estado global
type UsageObserver func(*domain.UsageSnapshot)

type MetaIntegrator struct {
	cfg    *config.Config
	Client metaclient.Client
}

func New(cfg *config.Config, client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// InsightsPage é uma página de registros diários já convertidos, com o cursor
// de continuação para a próxima página
type InsightsPage struct {
	Records    []*domain.AdDailyInsight
	NextCursor string
}

// FetchDailyInsightsPage busca e converte uma página de insights diários
func (s *MetaIntegrator) FetchDailyInsightsPage(
	ctx context.Context,
	token, accountID string,
	window metaclient.DateWindow,
	after string,
	observe UsageObserver,
) (*InsightsPage, error) {
	response, usage, err := s.Client.GetAdInsightsPage(ctx, token, accountID, window, after)
	if usage != nil && observe != nil {
		observe(usage)
	}
	if err != nil {
		return nil, err
	}

	records := make([]*domain.AdDailyInsight, 0, len(response.Data))
	for i := range response.Data {
		record := FactoryAdDailyInsight(&response.Data[i])
		if record == nil {
			continue
		}
		records = append(records, record)
	}

	return &InsightsPage{
		Records:    records,
		NextCursor: response.NextCursor(),
	}, nil
}

// ResolveMedia resolve a mídia de um lote de anúncios: referência direta do
// criativo primeiro; sem ela, resolve a publicação para um permalink; em
// último caso usa o thumbnail. Anúncios sem mídia resolvível ficam fora do
// mapa retornado
func (s *MetaIntegrator) ResolveMedia(
	ctx context.Context,
	token string,
	adIDs []string,
	observe UsageObserver,
) (map[string]*metadomain.MediaRef, error) {
	ads, usage, err := s.Client.GetAdsWithCreatives(ctx, token, adIDs)
	if usage != nil && observe != nil {
		observe(usage)
	}
	if err != nil {
		return nil, err
	}

	refs := make(map[string]*metadomain.MediaRef)
	for adID, ad := range ads {
		if ref := s.resolveMediaRef(ctx, token, adID, ad, observe); ref != nil {
			refs[adID] = ref
		}
	}

	return refs, nil
}

func (s *MetaIntegrator) resolveMediaRef(
	ctx context.Context,
	token, adID string,
	ad *metadomain.AdWithCreative,
	observe UsageObserver,
) *metadomain.MediaRef {
	if ad == nil || ad.Creative == nil {
		return nil
	}

	ref := &metadomain.MediaRef{AdID: adID, Format: ad.DetectFormat()}

	if ad.Creative.ImageURL != "" {
		ref.URL = ad.Creative.ImageURL
		return ref
	}

	storyID := ad.Creative.EffectiveObjectStoryID
	if storyID == "" {
		storyID = ad.Creative.ObjectStoryID
	}

	if storyID != "" {
		story, storyUsage, storyErr := s.Client.GetStory(ctx, token, storyID)
		if storyUsage != nil && observe != nil {
			observe(storyUsage)
		}
		if storyErr != nil {
			logrus.WithError(storyErr).WithFields(logrus.Fields{
				"ad_id":    adID,
				"story_id": storyID,
			}).Warn("Erro ao resolver publicação do anúncio, usando fallback")
		} else if story.PermalinkURL != "" {
			ref.URL = story.PermalinkURL
			return ref
		} else if story.FullPicture != "" {
			ref.URL = story.FullPicture
			return ref
		}
	}

	// Último recurso: thumbnail do criativo
	if ad.Creative.ThumbnailURL != "" {
		ref.URL = ad.Creative.ThumbnailURL
		return ref
	}

	return nil
}

// AdEnrichment consolida os metadados de criativo de um anúncio para a
// segunda passada do orquestrador
type AdEnrichment struct {
	Name        string
	Status      string
	Format      string
	MediaURL    string
	CreatedTime *time.Time
}

// EnrichAds faz um único lookup em lote e consolida nome, status, formato e
// mídia resolvida por anúncio. Anúncios ausentes da resposta ficam fora do mapa
func (s *MetaIntegrator) EnrichAds(
	ctx context.Context,
	token string,
	adIDs []string,
	observe UsageObserver,
) (map[string]*AdEnrichment, error) {
	ads, usage, err := s.Client.GetAdsWithCreatives(ctx, token, adIDs)
	if usage != nil && observe != nil {
		observe(usage)
	}
	if err != nil {
		return nil, err
	}

	enriched := make(map[string]*AdEnrichment, len(ads))
	for adID, ad := range ads {
		if ad == nil {
			continue
		}

		entry := &AdEnrichment{
			Name:   ad.Name,
			Status: ad.Status,
			Format: ad.DetectFormat(),
		}

		if ad.CreatedTime != "" {
			if created, parseErr := time.Parse("2006-01-02T15:04:05-0700", ad.CreatedTime); parseErr == nil {
				entry.CreatedTime = &created
			}
		}

		if ref := s.resolveMediaRef(ctx, token, adID, ad, observe); ref != nil {
			entry.MediaURL = ref.URL
		}

		enriched[adID] = entry
	}

	return enriched, nil
}

// AdMetadata devolve nome/status/data de criação dos anúncios do lote
func (s *MetaIntegrator) AdMetadata(
	ctx context.Context,
	token string,
	adIDs []string,
	observe UsageObserver,
) (map[string]*metadomain.AdWithCreative, error) {
	ads, usage, err := s.Client.GetAdsWithCreatives(ctx, token, adIDs)
	if usage != nil && observe != nil {
		observe(usage)
	}
	if err != nil {
		return nil, err
	}
	return ads, nil
}

// FactoryAdDailyInsight converte uma linha da API em registro de domínio.
// Valores numéricos chegam como string; valores monetários são convertidos
// uma única vez para centavos inteiros
func FactoryAdDailyInsight(row *metadomain.AdInsightRow) *domain.AdDailyInsight {
	if row == nil || row.AdID == "" {
		return nil
	}

	date, err := time.Parse(time.DateOnly, row.DateStart)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"ad_id":      row.AdID,
			"date_start": row.DateStart,
		}).Warn("Registro de insight com data inválida, ignorando")
		return nil
	}

	return &domain.AdDailyInsight{
		AdID:         row.AdID,
		AdName:       row.AdName,
		CampaignID:   row.CampaignID,
		CampaignName: row.CampaignName,
		AdsetID:      row.AdsetID,
		AdsetName:    row.AdsetName,
		AccountID:    row.AccountID,
		AccountName:  row.AccountName,
		Date:         date,
		Impressions:  parseInt(row.Impressions),
		Clicks:       parseInt(row.Clicks),
		UniqueClicks: parseInt(row.UniqueClicks),
		SpendCents:   parseMoneyCents(row.Spend),
		Reach:        parseInt(row.Reach),
		Currency:     row.Currency,
		Actions:      convertActions(row.Actions),
		ActionValues: convertActions(row.ActionValues),
	}
}

func convertActions(entries []metadomain.ActionEntry) []domain.AdAction {
	if len(entries) == 0 {
		return nil
	}

	actions := make([]domain.AdAction, 0, len(entries))
	for _, entry := range entries {
		value, err := strconv.ParseFloat(entry.Value, 64)
		if err != nil {
			continue
		}
		actions = append(actions, domain.AdAction{Type: entry.ActionType, Value: value})
	}
	return actions
}

func parseInt(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseMoneyCents converte um valor monetário decimal em centavos inteiros,
// evitando acumular deriva de ponto flutuante nas agregações
func parseMoneyCents(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(v*100 + 0.5)
}
