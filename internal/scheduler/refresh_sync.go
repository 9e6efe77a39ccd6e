package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/repository"
	"github.com/vfg2006/ads-refresh-engine/internal/config"
	"github.com/vfg2006/ads-refresh-engine/internal/usecases/refreshing"
)

// RefreshSyncService gerencia o agendamento da rodada batch de refresh. O
// caminho agendado roda com papel background e cede vagas ao caminho
// interativo no controlador de admissão
type RefreshSyncService struct {
	scheduler           *gocron.Scheduler
	config              config.RefreshSync
	refresher           refreshing.Refresher
	insightRepository   repository.AdDailyInsightRepository
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewRefreshSyncService cria uma nova instância do serviço de sincronização de refresh
func NewRefreshSyncService(
	refresher refreshing.Refresher,
	insightRepository repository.AdDailyInsightRepository,
	appConfig *config.Config,
) *RefreshSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule": appConfig.RefreshSync.CronSchedule,
		"lookback_days": appConfig.RefreshSync.LookbackDays,
		"chunk_days":    appConfig.RefreshSync.ChunkDays,
		"sync_enabled":  appConfig.RefreshSync.Enabled,
	}).Info("Configuração do agendador de refresh carregada")

	return &RefreshSyncService{
		scheduler:         gocron.NewScheduler(time.Local),
		config:            appConfig.RefreshSync,
		refresher:         refresher,
		insightRepository: insightRepository,
		syncRunning:       false,
	}
}

// Start inicia o agendador
func (s *RefreshSyncService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Sincronização agendada de refresh desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de refresh")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllTenants(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar a sincronização de refresh: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de refresh")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllTenants roda a rodada batch sobre todos os tenants com contas ativas
func (s *RefreshSyncService) syncAllTenants(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Rodada de refresh já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	s.lastSyncStartedAt = time.Now()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando rodada agendada de refresh para todos os tenants")

	if err := s.refresher.RefreshAll(ctx); err != nil {
		logrus.WithError(err).Error("Erro na rodada agendada de refresh")
		return
	}

	// Registros brutos além da janela de baseline não alimentam nenhum período
	pruned, err := s.insightRepository.DeleteOlderThan(s.config.LookbackDays)
	if err != nil {
		logrus.WithError(err).Warn("Erro ao podar registros brutos antigos")
	} else if pruned > 0 {
		logrus.WithField("pruned", pruned).Info("Registros brutos fora da janela removidos")
	}

	s.lastSyncCompletedAt = time.Now()
	logrus.WithField(
		"duration", s.lastSyncCompletedAt.Sub(s.lastSyncStartedAt).String(),
	).Info("Rodada agendada de refresh concluída")
}

// TriggerManualSync inicia manualmente uma rodada de refresh. A rodada é
// desacoplada do cancelamento do contexto de origem: o término da requisição
// HTTP que a disparou não pode abortar o processamento em andamento
func (s *RefreshSyncService) TriggerManualSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Rodada de refresh já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando rodada manual de refresh")
	go s.syncAllTenants(context.WithoutCancel(ctx))
}

// GetStatus retorna o status atual do agendador
func (s *RefreshSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.Enabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"sync_chunk_days":        s.config.ChunkDays,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
