package refreshing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

// fetchAccount executa as duas passadas de fetch de uma conta: insights
// diários paginados por janelas fatiadas e a passada de enriquecimento de
// criativo/mídia. Retorna o total de registros buscados
func (s *Service) fetchAccount(
	ctx context.Context,
	token string,
	account *domain.AdAccount,
	window metaclient.DateWindow,
) (int, error) {
	observe := s.controller.Observe

	fetched := 0
	for _, chunk := range splitWindow(window, s.cfg.RefreshSync.ChunkDays) {
		count, err := s.fetchChunk(ctx, token, account, chunk, observe)
		if err != nil {
			return fetched, err
		}
		fetched += count
	}

	if err := s.enrichAccount(ctx, token, account, window, observe); err != nil {
		// Enriquecimento é melhor esforço: os insights já estão persistidos
		logrus.WithError(err).WithField("account_id", account.ExternalID).
			Warn("Erro na passada de enriquecimento de mídia")
	}

	return fetched, nil
}

// fetchChunk consome as páginas de uma janela em sequência estrita: o cursor
// da página N é necessário para pedir a página N+1. A pausa proativa é
// aplicada depois de inspecionar a telemetria de cada resposta
func (s *Service) fetchChunk(
	ctx context.Context,
	token string,
	account *domain.AdAccount,
	chunk metaclient.DateWindow,
	observe meta.UsageObserver,
) (int, error) {
	fetched := 0
	after := ""

	for {
		var page *meta.InsightsPage
		err := s.retry.Execute(ctx, "fetch_insights", func() error {
			var fetchErr error
			page, fetchErr = s.meta.FetchDailyInsightsPage(ctx, token, account.ExternalID, chunk, after, observe)
			return fetchErr
		})
		if err != nil {
			return fetched, err
		}

		for _, record := range page.Records {
			record.AccountID = account.ExternalID
			if record.Currency == "" {
				record.Currency = account.Currency
			}
		}

		if len(page.Records) > 0 {
			if err := s.insightRepository.SaveBatch(page.Records); err != nil {
				return fetched, newRefreshError(CategoryStructural, "erro ao persistir os registros brutos", err)
			}
			fetched += len(page.Records)
		}

		if err := s.pauseIfNeeded(ctx, account.ExternalID); err != nil {
			return fetched, err
		}

		if page.NextCursor == "" {
			return fetched, nil
		}
		after = page.NextCursor
	}
}

// enrichAccount roda a segunda passada: lookup em lote de criativo/mídia sobre
// os anúncios vistos na janela. Enriquecimento parcial é idempotente: um valor
// conhecido nunca é sobrescrito por um vazio
func (s *Service) enrichAccount(
	ctx context.Context,
	token string,
	account *domain.AdAccount,
	window metaclient.DateWindow,
	observe meta.UsageObserver,
) error {
	records, err := s.insightRepository.GetByAccountSince(account.ExternalID, window.Since)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	byAd := make(map[string][]*domain.AdDailyInsight)
	adIDs := make([]string, 0)
	for _, record := range records {
		if _, seen := byAd[record.AdID]; !seen {
			adIDs = append(adIDs, record.AdID)
		}
		byAd[record.AdID] = append(byAd[record.AdID], record)
	}

	touched := make([]*domain.AdDailyInsight, 0, len(records))
	for start := 0; start < len(adIDs); {
		batchSize := s.controller.OptimalBatchSize(account.ExternalID)
		end := start + batchSize
		if end > len(adIDs) {
			end = len(adIDs)
		}

		var enriched map[string]*meta.AdEnrichment
		err := s.retry.Execute(ctx, "enrich_ads", func() error {
			var enrichErr error
			enriched, enrichErr = s.meta.EnrichAds(ctx, token, adIDs[start:end], observe)
			return enrichErr
		})
		if err != nil {
			return err
		}

		for adID, entry := range enriched {
			for _, record := range byAd[adID] {
				if applyEnrichment(record, entry) {
					touched = append(touched, record)
				}
			}
		}

		if err := s.pauseIfNeeded(ctx, account.ExternalID); err != nil {
			return err
		}

		start = end
	}

	if len(touched) == 0 {
		return nil
	}
	return s.insightRepository.SaveBatch(touched)
}

// applyEnrichment aplica os metadados resolvidos ao registro e informa se algo
// mudou. Campos vazios da resposta nunca apagam valores já conhecidos
func applyEnrichment(record *domain.AdDailyInsight, entry *meta.AdEnrichment) bool {
	changed := false

	if entry.Name != "" && record.AdName != entry.Name {
		record.AdName = entry.Name
		changed = true
	}
	if entry.Status != "" && record.Status != entry.Status {
		record.Status = entry.Status
		changed = true
	}
	if entry.Format != "" && entry.Format != "unknown" && record.Format != entry.Format {
		record.Format = entry.Format
		changed = true
	}
	if entry.MediaURL != "" && record.MediaURL != entry.MediaURL {
		record.MediaURL = entry.MediaURL
		changed = true
	}
	if entry.CreatedTime != nil && record.CreatedTime == nil {
		record.CreatedTime = entry.CreatedTime
		changed = true
	}

	return changed
}

// pauseIfNeeded consulta o controlador de taxa e dorme a pausa sugerida,
// respeitando o cancelamento do contexto
func (s *Service) pauseIfNeeded(ctx context.Context, accountID string) error {
	pause, duration := s.controller.ShouldPause(accountID)
	if !pause {
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"pause":      duration.String(),
	}).Info("Pausa proativa por utilização de quota")

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(duration):
		return nil
	}
}

// splitWindow fatia janelas maiores que o limite em sub-janelas fixas para
// limitar o custo por requisição, em vez de depender só da paginação
func splitWindow(window metaclient.DateWindow, chunkDays int) []metaclient.DateWindow {
	if chunkDays <= 0 || window.Days() <= chunkDays {
		return []metaclient.DateWindow{window}
	}

	chunks := make([]metaclient.DateWindow, 0, window.Days()/chunkDays+1)
	since := window.Since
	for !since.After(window.Until) {
		until := since.AddDate(0, 0, chunkDays-1)
		if until.After(window.Until) {
			until = window.Until
		}
		chunks = append(chunks, metaclient.DateWindow{Since: since, Until: until})
		since = until.AddDate(0, 0, 1)
	}
	return chunks
}
