package api

import (
	"gabber/annotator/internal/common"
	"gabber/annotator/internal/config"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/db/repositories"
	"gabber/annotator/internal/metrics"
	"gabber/annotator/internal/providers"
	"gabber/annotator/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Services struct {
	Identity    *services.IdentityService
	Memberships *services.MembershipService
	Consents    *services.ConsentService
	Projects    *services.ProjectService
	Sessions    *services.SessionService
	Annotations *services.AnnotationService
	Comments    *services.CommentService
	Playlists   *services.PlaylistService
}

// Infra is what the entry point opens and owns
type Infra struct {
	ORM      *gorm.DB
	SQL      *sqlx.DB
	Redis    *redis.Client
	Keys     common.KeyStore
	Storage  providers.ObjectStorage
	Notifier providers.Notifier
	Metrics  *metrics.MetricsRegistry
}

type Dependencies struct {
	Config     *config.Config
	Infra      *Infra
	Dispatcher *services.Dispatcher
	Services   *Services
}

func InitDependencies(cfg *config.Config, infra *Infra) *Dependencies {
	signer := common.NewTokenSigner(cfg.SecretKey, map[constants.TokenPurpose]string{
		constants.TokenPurposeConsent: cfg.ConsentSalt,
		constants.TokenPurposeInvite:  cfg.InviteSalt,
		constants.TokenPurposeReset:   cfg.ResetSalt,
		constants.TokenPurposeVerify:  cfg.VerifySalt,
	})
	tokens := common.NewTokenStore(infra.Keys)
	dispatcher := services.NewDispatcher(infra.Notifier, infra.Metrics, cfg.NotifyWorkers)

	gate := services.NewAccessGate(infra.ORM)
	identity := services.NewIdentityService(infra.ORM, signer, tokens, dispatcher, cfg)
	consents := services.NewConsentService(infra.ORM, signer, dispatcher, infra.Metrics, cfg)
	stats := repositories.NewStatsRepository(infra.SQL)

	return &Dependencies{
		Config:     cfg,
		Infra:      infra,
		Dispatcher: dispatcher,
		Services: &Services{
			Identity:    identity,
			Memberships: services.NewMembershipService(infra.ORM, gate, identity, dispatcher, infra.Metrics, cfg),
			Consents:    consents,
			Projects:    services.NewProjectService(infra.ORM, gate, stats),
			Sessions:    services.NewSessionService(infra.ORM, gate, identity, consents, infra.Storage, infra.Metrics, cfg),
			Annotations: services.NewAnnotationService(infra.ORM, gate, infra.Metrics),
			Comments:    services.NewCommentService(infra.ORM, gate, dispatcher, infra.Metrics),
			Playlists:   services.NewPlaylistService(infra.ORM, gate),
		},
	}
}
