package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/meta-ads-gateway/infrastructure/repository"
	"github.com/vfg2006/meta-ads-gateway/internal/config"
	"github.com/vfg2006/meta-ads-gateway/internal/usecases/tokening"
)

// TokenRefreshConfig representa a configuração do agendador de renovação de tokens
type TokenRefreshConfig struct {
	IntervalHours  int
	WindowDays     int
	RefreshEnabled bool
}

// TokenRefreshService renova proativamente as credenciais que estão
// perto de expirar, trocando-as por tokens de longa duração antes que
// uma chamada real falhe por expiração
type TokenRefreshService struct {
	scheduler *gocron.Scheduler
	config    TokenRefreshConfig
	store     repository.CredentialRepository
	tokens    tokening.TokenService

	refreshRunning bool
	refreshMutex   sync.Mutex
	lastRunAt      time.Time
}

// NewTokenRefreshService cria uma nova instância do serviço de renovação de tokens
func NewTokenRefreshService(
	store repository.CredentialRepository,
	tokens tokening.TokenService,
	appConfig *config.Config,
) *TokenRefreshService {
	refreshConfig := TokenRefreshConfig{
		IntervalHours:  appConfig.TokenRefresh.IntervalHours,
		WindowDays:     appConfig.TokenRefresh.WindowDays,
		RefreshEnabled: appConfig.TokenRefresh.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"interval_hours":  refreshConfig.IntervalHours,
		"window_days":     refreshConfig.WindowDays,
		"refresh_enabled": refreshConfig.RefreshEnabled,
	}).Info("Configuração do agendador de renovação de tokens carregada")

	return &TokenRefreshService{
		scheduler: scheduler,
		config:    refreshConfig,
		store:     store,
		tokens:    tokens,
	}
}

// Start inicia o agendador
func (s *TokenRefreshService) Start(ctx context.Context) error {
	if !s.config.RefreshEnabled {
		logrus.Info("Renovação proativa de tokens desabilitada por configuração")
		return nil
	}

	logrus.WithField("interval_hours", s.config.IntervalHours).
		Info("Iniciando agendador de renovação de tokens")

	_, err := s.scheduler.Every(s.config.IntervalHours).Hours().Do(func() {
		s.refreshExpiringTokens(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar renovação de tokens: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de renovação de tokens")
		s.scheduler.Stop()
	}()

	return nil
}

// refreshExpiringTokens troca as credenciais que expiram dentro da
// janela configurada. Uma falha individual não interrompe as demais.
func (s *TokenRefreshService) refreshExpiringTokens(ctx context.Context) {
	s.refreshMutex.Lock()
	if s.refreshRunning {
		s.refreshMutex.Unlock()
		logrus.Info("Renovação de tokens já em andamento, ignorando")
		return
	}
	s.refreshRunning = true
	s.lastRunAt = time.Now()
	s.refreshMutex.Unlock()

	defer func() {
		s.refreshMutex.Lock()
		s.refreshRunning = false
		s.refreshMutex.Unlock()
	}()

	window := time.Duration(s.config.WindowDays) * 24 * time.Hour

	expiring, err := s.store.ListExpiring(ctx, window)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar credenciais próximas de expirar")
		return
	}

	if len(expiring) == 0 {
		logrus.Debug("Nenhuma credencial próxima de expirar")
		return
	}

	logrus.WithField("total", len(expiring)).Info("Renovando credenciais próximas de expirar")

	var refreshed, failed int

	for sessionID, cred := range expiring {
		if ctx.Err() != nil {
			return
		}

		if _, err := s.tokens.Refresh(ctx, sessionID, cred); err != nil {
			failed++
			logrus.WithError(err).WithField("session_id", sessionID).
				Warn("Erro ao renovar credencial")
			continue
		}
		refreshed++
	}

	logrus.WithFields(logrus.Fields{
		"refreshed": refreshed,
		"failed":    failed,
	}).Info("Renovação de tokens concluída")
}

// Status devolve o estado corrente do agendador para diagnóstico
func (s *TokenRefreshService) Status() (running bool, lastRunAt time.Time) {
	s.refreshMutex.Lock()
	defer s.refreshMutex.Unlock()

	return s.refreshRunning, s.lastRunAt
}
