package admission

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ads-refresh-engine/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-refresh-engine/internal/config"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
	"go.uber.org/mock/gomock"
)

func testConfig() config.Admission {
	return config.Admission{
		Ceiling:                 8,
		BackgroundSkipThreshold: 5,
		ZombieTimeout:           45 * time.Minute,
	}
}

func TestCanAdmit(t *testing.T) {
	tests := []struct {
		name              string
		role              domain.RefreshRole
		activeCount       int
		expectedAdmit     bool
		expectedAvailable int
	}{
		{
			name:              "Interativo com vagas livres é admitido",
			role:              domain.RefreshRoleInteractive,
			activeCount:       3,
			expectedAdmit:     true,
			expectedAvailable: 5,
		},
		{
			name:          "Interativo no teto global é negado",
			role:          domain.RefreshRoleInteractive,
			activeCount:   8,
			expectedAdmit: false,
		},
		{
			name:              "Background abaixo do limiar de corte é admitido",
			role:              domain.RefreshRoleBackground,
			activeCount:       4,
			expectedAdmit:     true,
			expectedAvailable: 1,
		},
		{
			name:          "Background cede vaga no limiar de corte",
			role:          domain.RefreshRoleBackground,
			activeCount:   5,
			expectedAdmit: false,
		},
		{
			name:              "Interativo ainda entra acima do limiar de background",
			role:              domain.RefreshRoleInteractive,
			activeCount:       6,
			expectedAdmit:     true,
			expectedAvailable: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			jobRepo := mocks.NewMockRefreshJobRepository(ctrl)

			// A ceifa de zumbis precede toda verificação de admissão
			jobRepo.EXPECT().ReapZombies(45 * time.Minute).Return(int64(0), nil)
			jobRepo.EXPECT().ActiveCount().Return(tt.activeCount, nil)

			service := NewService(testConfig(), jobRepo)

			admitted, available, message := service.CanAdmit(tt.role)
			assert.Equal(t, tt.expectedAdmit, admitted)
			assert.Equal(t, tt.expectedAvailable, available)
			if !tt.expectedAdmit {
				assert.NotEmpty(t, message)
			}
		})
	}
}

func TestCanAdmitFailsClosedOnStoreErrors(t *testing.T) {
	t.Run("Falha na ceifa de zumbis nega admissão", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		jobRepo := mocks.NewMockRefreshJobRepository(ctrl)
		jobRepo.EXPECT().ReapZombies(gomock.Any()).Return(int64(0), errors.New("conexão recusada"))

		service := NewService(testConfig(), jobRepo)

		admitted, available, message := service.CanAdmit(domain.RefreshRoleInteractive)
		assert.False(t, admitted)
		assert.Zero(t, available)
		assert.NotEmpty(t, message)
	})

	t.Run("Falha na contagem nega admissão", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		jobRepo := mocks.NewMockRefreshJobRepository(ctrl)
		jobRepo.EXPECT().ReapZombies(gomock.Any()).Return(int64(0), nil)
		jobRepo.EXPECT().ActiveCount().Return(0, errors.New("conexão recusada"))

		service := NewService(testConfig(), jobRepo)

		admitted, _, _ := service.CanAdmit(domain.RefreshRoleInteractive)
		assert.False(t, admitted)
	})
}

func TestAcquireUsesRoleLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobRepo := mocks.NewMockRefreshJobRepository(ctrl)
	service := NewService(testConfig(), jobRepo)

	job := &domain.RefreshJob{ID: "job-1", Role: domain.RefreshRoleBackground}

	jobRepo.EXPECT().ReapZombies(45 * time.Minute).Return(int64(2), nil)
	// O caminho agendado disputa apenas as vagas abaixo do limiar de corte
	jobRepo.EXPECT().Acquire(gomock.Any(), job, 5).Return(true, 3, nil)

	admitted, available, err := service.Acquire(context.Background(), job)
	assert.NoError(t, err)
	assert.True(t, admitted)
	assert.Equal(t, 3, available)
}

func TestAcquireInteractiveUsesGlobalCeiling(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobRepo := mocks.NewMockRefreshJobRepository(ctrl)
	service := NewService(testConfig(), jobRepo)

	job := &domain.RefreshJob{ID: "job-1", Role: domain.RefreshRoleInteractive}

	jobRepo.EXPECT().ReapZombies(gomock.Any()).Return(int64(0), nil)
	jobRepo.EXPECT().Acquire(gomock.Any(), job, 8).Return(false, 0, nil)

	admitted, available, err := service.Acquire(context.Background(), job)
	assert.NoError(t, err)
	assert.False(t, admitted)
	assert.Zero(t, available)
}

func TestAcquireFailsClosedWhenReapFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobRepo := mocks.NewMockRefreshJobRepository(ctrl)
	service := NewService(testConfig(), jobRepo)

	jobRepo.EXPECT().ReapZombies(gomock.Any()).Return(int64(0), errors.New("banco fora do ar"))

	admitted, _, err := service.Acquire(context.Background(), &domain.RefreshJob{ID: "job-1"})
	assert.Error(t, err)
	assert.False(t, admitted)
}
