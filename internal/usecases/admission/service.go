package admission

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/repository"
	"github.com/vfg2006/ads-refresh-engine/internal/config"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

// Admitter é o controlador de admissão de jobs compartilhado entre o processo
// agendado e o caminho sob demanda. O teto vive na tabela de jobs e toda
// decisão passa pelas garantias transacionais do banco
type Admitter interface {
	CanAdmit(role domain.RefreshRole) (bool, int, string)
	Acquire(ctx context.Context, job *domain.RefreshJob) (bool, int, error)
	ReapZombies() (int64, error)
}

type service struct {
	cfg           config.Admission
	jobRepository repository.RefreshJobRepository
}

func NewService(cfg config.Admission, jobRepository repository.RefreshJobRepository) Admitter {
	return &service{
		cfg:           cfg,
		jobRepository: jobRepository,
	}
}

// limit retorna o teto efetivo para o papel: o caminho interativo usa o teto
// global e o agendado cede vagas a partir do limiar de corte
func (s *service) limit(role domain.RefreshRole) int {
	if role == domain.RefreshRoleBackground {
		return s.cfg.BackgroundSkipThreshold
	}
	return s.cfg.Ceiling
}

// CanAdmit verifica se há vaga para o papel informado. Zumbis são ceifados
// antes de toda verificação e, se o banco estiver inacessível, a admissão
// falha fechada para nunca liberar concorrência sem limite
func (s *service) CanAdmit(role domain.RefreshRole) (bool, int, string) {
	if _, err := s.ReapZombies(); err != nil {
		logrus.WithError(err).Error("Erro ao ceifar jobs zumbis, negando admissão")
		return false, 0, "não foi possível verificar os jobs ativos, tente novamente em instantes"
	}

	active, err := s.jobRepository.ActiveCount()
	if err != nil {
		logrus.WithError(err).Error("Erro ao contar jobs ativos, negando admissão")
		return false, 0, "não foi possível verificar os jobs ativos, tente novamente em instantes"
	}

	limit := s.limit(role)
	available := limit - active
	if available <= 0 {
		if role == domain.RefreshRoleBackground {
			// Fome do caminho agendado sob carga interativa é esperada
			logrus.WithFields(logrus.Fields{
				"active": active,
				"limit":  limit,
			}).Info("Refresh agendado cedendo vaga para o caminho interativo")
			return false, 0, "atualizações em segundo plano cederam vaga, aguardando próxima execução"
		}
		return false, 0, fmt.Sprintf("limite de %d atualizações simultâneas atingido, tente novamente em instantes", s.cfg.Ceiling)
	}

	return true, available, ""
}

// Acquire ceifa zumbis e tenta inserir o job dentro do teto em uma única
// transação. Retorna se o job foi admitido e quantas vagas restavam
func (s *service) Acquire(ctx context.Context, job *domain.RefreshJob) (bool, int, error) {
	if _, err := s.ReapZombies(); err != nil {
		return false, 0, err
	}

	return s.jobRepository.Acquire(ctx, job, s.limit(job.Role))
}

// ReapZombies transiciona jobs presos em RUNNING além do timeout para ERROR.
// Idempotente e seguro de correr entre processos
func (s *service) ReapZombies() (int64, error) {
	reaped, err := s.jobRepository.ReapZombies(s.cfg.ZombieTimeout)
	if err != nil {
		return 0, err
	}

	if reaped > 0 {
		logrus.WithField("reaped", reaped).Warn("Jobs zumbis transicionados para ERROR")
	}

	return reaped, nil
}
