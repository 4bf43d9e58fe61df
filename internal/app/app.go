// Package app собирает зависимости сервиса из конфигурации
// Используется HTTP сервером и salonctl
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-NailSalon/internal/chat"
	"github.com/m04kA/SMC-NailSalon/internal/config"
	"github.com/m04kA/SMC-NailSalon/internal/infra/cache"
	"github.com/m04kA/SMC-NailSalon/internal/infra/cache/attempts"
	"github.com/m04kA/SMC-NailSalon/internal/infra/cache/slots"
	appointmentRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/appointment"
	auditRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/audit"
	catalogRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/catalog"
	commissionRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/commission"
	couponRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/coupon"
	"github.com/m04kA/SMC-NailSalon/internal/infra/storage/files"
	galleryRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/gallery"
	"github.com/m04kA/SMC-NailSalon/internal/infra/storage/migrations"
	notificationLogRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/notificationlog"
	professionalRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/professional"
	recurringRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/recurring"
	reviewRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/review"
	settingsRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/settings"
	timeBlockRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/timeblock"
	userRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/user"
	waitlistRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-NailSalon/internal/integrations/email"
	"github.com/m04kA/SMC-NailSalon/internal/integrations/google"
	"github.com/m04kA/SMC-NailSalon/internal/integrations/whatsapp"
	"github.com/m04kA/SMC-NailSalon/internal/notify"
	"github.com/m04kA/SMC-NailSalon/internal/service/appointments"
	"github.com/m04kA/SMC-NailSalon/internal/service/audit"
	"github.com/m04kA/SMC-NailSalon/internal/service/auth"
	"github.com/m04kA/SMC-NailSalon/internal/service/catalog"
	"github.com/m04kA/SMC-NailSalon/internal/service/commissions"
	"github.com/m04kA/SMC-NailSalon/internal/service/coupons"
	"github.com/m04kA/SMC-NailSalon/internal/service/gallery"
	"github.com/m04kA/SMC-NailSalon/internal/service/professionals"
	"github.com/m04kA/SMC-NailSalon/internal/service/recurring"
	"github.com/m04kA/SMC-NailSalon/internal/service/reviews"
	"github.com/m04kA/SMC-NailSalon/internal/service/settings"
	"github.com/m04kA/SMC-NailSalon/internal/service/timeblocks"
	"github.com/m04kA/SMC-NailSalon/internal/service/waitlist"
	cancelAppointmentUC "github.com/m04kA/SMC-NailSalon/internal/usecase/cancel_appointment"
	createAppointmentUC "github.com/m04kA/SMC-NailSalon/internal/usecase/create_appointment"
	expireWaitlistUC "github.com/m04kA/SMC-NailSalon/internal/usecase/expire_waitlist"
	generateRecurringUC "github.com/m04kA/SMC-NailSalon/internal/usecase/generate_recurring"
	getAvailableSlotsUC "github.com/m04kA/SMC-NailSalon/internal/usecase/get_available_slots"
	promoteWaitlistUC "github.com/m04kA/SMC-NailSalon/internal/usecase/promote_waitlist"
	sendRemindersUC "github.com/m04kA/SMC-NailSalon/internal/usecase/send_reminders"
	"github.com/m04kA/SMC-NailSalon/pkg/authtoken"
	"github.com/m04kA/SMC-NailSalon/pkg/dbmetrics"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
	"github.com/m04kA/SMC-NailSalon/pkg/metrics"
	"github.com/m04kA/SMC-NailSalon/pkg/sqlbuilder"
	"github.com/m04kA/SMC-NailSalon/pkg/txmanager"
)

// ErrInit возвращается, если зависимость не удалось поднять
var ErrInit = errors.New("app: failed to initialize")

// availabilityCache кэш слотов со всеми операциями, нужными use case и сервисам
type availabilityCache interface {
	getAvailableSlotsUC.SlotsCache
	cancelAppointmentUC.SlotsCache
	catalog.SlotsCache
}

// App собранные компоненты сервиса
type App struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	DB      *dbmetrics.DB
	Dialect sqlbuilder.Dialect
	Tokens  *authtoken.Manager
	Files   *files.Store

	Dispatcher *notify.Dispatcher
	Hub        *chat.Hub

	Auth          *auth.Service
	Catalog       *catalog.Service
	Professionals *professionals.Service
	Settings      *settings.Service
	TimeBlocks    *timeblocks.Service
	Appointments  *appointments.Service
	Waitlist      *waitlist.Service
	Recurring     *recurring.Service
	Coupons       *coupons.Service
	Commissions   *commissions.Service
	Reviews       *reviews.Service
	Gallery       *gallery.Service
	Audit         *audit.Service

	CreateAppointment *createAppointmentUC.UseCase
	Availability      *getAvailableSlotsUC.UseCase
	GenerateRecurring *generateRecurringUC.UseCase
	ExpireWaitlist    *expireWaitlistUC.UseCase
	SendReminders     *sendRemindersUC.UseCase

	raw    *sql.DB
	redis  *redis.Client
	stopCh chan struct{}
}

// New подключается к базе и Redis, применяет миграции (если включено) и собирает сервисы
// Диспетчер уведомлений и хаб чата не запускаются: это делает вызывающий
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: log, stopCh: make(chan struct{})}

	loc, err := cfg.Salon.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}
	time.Local = loc

	dialect, err := sqlbuilder.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}
	a.Dialect = dialect

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New(cfg.Metrics.ServiceName)
	}

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(dialect, cfg.Database.MigrateURL()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInit, err)
		}
		log.Info("Database migrations applied (driver=%s)", dialect)
	}

	if err := a.openDB(ctx); err != nil {
		a.Close()
		return nil, err
	}

	if err := a.build(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) openDB(ctx context.Context) error {
	cfg := a.Config.Database

	db, err := sql.Open(string(a.Dialect), cfg.DSN())
	if err != nil {
		return fmt.Errorf("%w: open database: %v", ErrInit, err)
	}
	a.raw = db

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("%w: ping database: %v", ErrInit, err)
	}

	a.DB = dbmetrics.WrapWithDefault(db, a.Metrics, a.Config.Metrics.ServiceName, a.stopCh)
	if a.Dialect == sqlbuilder.SQLite {
		a.Logger.Info("Connected to database (driver=sqlite, path=%s)", cfg.Path)
	} else {
		a.Logger.Info("Connected to database (driver=postgres, host=%s, port=%d, db=%s)", cfg.Host, cfg.Port, cfg.DBName)
	}
	return nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.Config
	log := a.Logger
	serviceName := cfg.Metrics.ServiceName
	sb := sqlbuilder.New(a.Dialect)

	// Транзакции
	var txOpts []txmanager.Option
	if a.Dialect == sqlbuilder.SQLite {
		txOpts = append(txOpts, txmanager.WithoutIsolationLevels())
	}
	txMgr := txmanager.NewTransactionManager(a.DB, txOpts...)

	// Репозитории
	users := userRepo.NewRepository(a.DB, sb)
	services := catalogRepo.NewRepository(a.DB, sb)
	profs := professionalRepo.NewRepository(a.DB, sb)
	settingsStore := settingsRepo.NewRepository(a.DB, sb)
	appointmentStore := appointmentRepo.NewRepository(a.DB, sb)
	timeBlockStore := timeBlockRepo.NewRepository(a.DB, sb)
	waitlistStore := waitlistRepo.NewRepository(a.DB, sb)
	recurringStore := recurringRepo.NewRepository(a.DB, sb)
	couponStore := couponRepo.NewRepository(a.DB, sb)
	commissionStore := commissionRepo.NewRepository(a.DB, sb)
	reviewStore := reviewRepo.NewRepository(a.DB, sb)
	galleryStore := galleryRepo.NewRepository(a.DB, sb)
	auditStore := auditRepo.NewRepository(a.DB, sb)
	notificationLogs := notificationLogRepo.NewRepository(a.DB, sb)

	// Redis: кэш доступности и счетчик попыток входа
	var (
		slotsCache   availabilityCache   = slots.Noop{}
		loginCounter auth.AttemptCounter = attempts.Noop{}
	)
	if cfg.Redis.Enabled {
		rdb, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInit, err)
		}
		a.redis = rdb
		slotsCache = slots.New(rdb, time.Duration(cfg.Redis.SlotsTTLSeconds)*time.Second, a.Metrics, serviceName)
		loginCounter = attempts.New(rdb, cfg.Auth.MaxLoginAttempts, time.Duration(cfg.Auth.LockoutMinutes)*time.Minute)
		log.Info("Redis connected at %s (slots ttl=%ds)", cfg.Redis.Addr, cfg.Redis.SlotsTTLSeconds)
	} else {
		log.Warn("Redis disabled: availability is computed on every request, login throttling is off")
	}

	// Файлы галереи
	store, err := files.NewStore(cfg.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInit, err)
	}
	a.Files = store

	// Уведомления
	dispatcher, err := a.newDispatcher(notificationLogs)
	if err != nil {
		return err
	}
	a.Dispatcher = dispatcher
	publisher := notify.NewPublisher(dispatcher, users, cfg.Salon.Name, log)

	a.Hub = chat.NewHub(log)

	// Журнал аудита
	a.Audit = audit.NewService(auditStore, log)

	// Аутентификация
	a.Tokens = authtoken.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	var googleClient auth.GoogleClient
	if cfg.Google.Enabled {
		googleClient = google.NewClient(cfg.Google)
	}
	a.Auth = auth.NewService(users, a.Tokens, loginCounter, googleClient, log)

	// Use cases
	promoter := promoteWaitlistUC.NewUseCase(waitlistStore, settingsStore, services, publisher, log)

	a.Availability = getAvailableSlotsUC.NewUseCase(
		services,
		profs,
		settingsStore,
		appointmentStore,
		timeBlockStore,
		slotsCache,
		log,
	)

	a.CreateAppointment = createAppointmentUC.NewUseCase(createAppointmentUC.Deps{
		Services:      services,
		Users:         users,
		Professionals: profs,
		Settings:      settingsStore,
		Appointments:  appointmentStore,
		TimeBlocks:    timeBlockStore,
		Coupons:       couponStore,
		Waitlist:      waitlistStore,
		Cache:         slotsCache,
		Notifier:      publisher,
		TxManager:     txMgr,
		Logger:        log,
	}).WithMetrics(a.Metrics, serviceName)

	canceller := cancelAppointmentUC.NewUseCase(
		appointmentStore,
		couponStore,
		settingsStore,
		slotsCache,
		publisher,
		promoter,
		txMgr,
		log,
	)

	a.GenerateRecurring = generateRecurringUC.NewUseCase(
		recurringStore,
		services,
		settingsStore,
		appointmentStore,
		timeBlockStore,
		slotsCache,
		txMgr,
		log,
	).WithMetrics(a.Metrics, serviceName)

	a.ExpireWaitlist = expireWaitlistUC.NewUseCase(waitlistStore, promoter, log)
	a.SendReminders = sendRemindersUC.NewUseCase(
		appointmentStore,
		publisher,
		time.Duration(cfg.Notifications.ReminderHours)*time.Hour,
		log,
	)

	// Сервисы
	a.Catalog = catalog.NewService(services, slotsCache, a.Audit, log)
	a.Professionals = professionals.NewService(profs, a.Audit, log)
	a.Settings = settings.NewService(settingsStore, services, slotsCache, a.Audit, txMgr, log)
	a.TimeBlocks = timeblocks.NewService(timeBlockStore, appointmentStore, slotsCache, a.Audit, log)
	a.Appointments = appointments.NewService(
		appointmentStore,
		profs,
		commissionStore,
		canceller,
		slotsCache,
		publisher,
		a.Audit,
		txMgr,
		log,
	)
	a.Waitlist = waitlist.NewService(waitlistStore, services, promoter, log)
	a.Recurring = recurring.NewService(
		recurringStore,
		users,
		services,
		profs,
		a.GenerateRecurring,
		cfg.Scheduler.RecurringHorizonDays,
		a.Audit,
		log,
	)
	a.Coupons = coupons.NewService(couponStore, a.Audit, log)
	a.Commissions = commissions.NewService(commissionStore, a.Audit, log)
	a.Reviews = reviews.NewService(reviewStore, appointmentStore, a.Audit, log)
	a.Gallery = gallery.NewService(galleryStore, store, cfg.Uploads.MaxBytes, cfg.Uploads.URLPrefix, a.Audit, log)

	return nil
}

// newDispatcher подключает включенные каналы доставки
func (a *App) newDispatcher(logs notify.LogStore) (*notify.Dispatcher, error) {
	cfg := a.Config

	renderer, err := notify.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}

	var channels []notify.Channel
	if cfg.Email.Enabled {
		client, err := email.NewClient(cfg.Email, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInit, err)
		}
		channels = append(channels, notify.NewEmailChannel(client))
		a.Logger.Info("Email notifications enabled (smtp=%s:%d)", cfg.Email.Host, cfg.Email.Port)
	}
	if cfg.WhatsApp.Enabled {
		client := whatsapp.NewClient(
			cfg.WhatsApp.APIURL,
			cfg.WhatsApp.PhoneNumberID,
			cfg.WhatsApp.Token,
			time.Duration(cfg.WhatsApp.Timeout)*time.Second,
			a.Logger,
		)
		channels = append(channels, notify.NewWhatsAppChannel(client))
		a.Logger.Info("WhatsApp notifications enabled")
	}
	if len(channels) == 0 {
		a.Logger.Warn("No notification channels enabled: notifications are only logged")
	}

	return notify.NewDispatcher(renderer, logs, a.Logger, notify.Options{
		Workers:     cfg.Notifications.Workers,
		QueueSize:   cfg.Notifications.QueueSize,
		MaxAttempts: cfg.Notifications.MaxAttempts,
		RetryBase:   time.Duration(cfg.Notifications.RetryBaseSeconds) * time.Second,
		Metrics:     a.Metrics,
		ServiceName: cfg.Metrics.ServiceName,
		// Остаток очереди дочитывается в пределах таймаута остановки сервера
		DrainTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
	}, channels...), nil
}

// PingContext проверяет соединение с базой
func (a *App) PingContext(ctx context.Context) error {
	return a.raw.PingContext(ctx)
}

// Close останавливает сбор статистики и закрывает соединения
func (a *App) Close() {
	select {
	case <-a.stopCh:
	default:
		close(a.stopCh)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("Failed to close redis client: %v", err)
		}
	}
	if a.raw != nil {
		if err := a.raw.Close(); err != nil {
			a.Logger.Warn("Failed to close database: %v", err)
		}
	}
}
