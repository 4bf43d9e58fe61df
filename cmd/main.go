package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	approveReviewHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/approve_review"
	cancelAppointmentHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/cancel_appointment"
	chatWSHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/chat_ws"
	createAppointmentHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/create_appointment"
	createCouponHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/create_coupon"
	createProfessionalHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/create_professional"
	createRecurringHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/create_recurring"
	createReviewHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/create_review"
	createServiceHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/create_service"
	createTimeBlockHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/create_time_block"
	deactivateRecurringHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/deactivate_recurring"
	deactivateServiceHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/deactivate_service"
	deleteImageHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/delete_image"
	deleteReviewHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/delete_review"
	deleteServiceSettingsHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/delete_service_settings"
	deleteTimeBlockHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/delete_time_block"
	generateRecurringHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/generate_recurring"
	getAppointmentHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/get_available_slots"
	getBusinessHoursHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/get_business_hours"
	getMyAppointmentsHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/get_my_appointments"
	getMyWaitlistHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/get_my_waitlist"
	getProfileHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/get_profile"
	getServiceHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/get_service"
	getSettingsHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/get_settings"
	googleCallbackHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/google_callback"
	googleLoginHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/google_login"
	healthHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/health"
	joinWaitlistHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/join_waitlist"
	leaveWaitlistHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/leave_waitlist"
	listAllReviewsHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/list_all_reviews"
	listAppointmentsHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/list_appointments"
	listAuditHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/list_audit"
	listCommissionsHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/list_commissions"
	listCouponsHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/list_coupons"
	listGalleryHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/list_gallery"
	listProfessionalsHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/list_professionals"
	listRecurringHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/list_recurring"
	listReviewsHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/list_reviews"
	listServicesHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/list_services"
	listSettingsHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/list_settings"
	listTimeBlocksHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/list_time_blocks"
	listWaitlistHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/list_waitlist"
	loginHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/login"
	markCommissionPaidHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/mark_commission_paid"
	registerHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/register"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/update_appointment_status"
	updateBusinessHoursHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/update_business_hours"
	updateCouponHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/update_coupon"
	updateProfessionalHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/update_professional"
	updateServiceHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/update_service"
	updateSettingsHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/update_settings"
	uploadImageHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/upload_image"
	validateCouponHandler "github.com/m04kA/SMC-NailSalon/internal/api/handlers/validate_coupon"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/app"
	"github.com/m04kA/SMC-NailSalon/internal/config"
	"github.com/m04kA/SMC-NailSalon/internal/scheduler"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
)

// rateLimitCleanupInterval период удаления неактивных IP из лимитера
const rateLimitCleanupInterval = 5 * time.Minute

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-NailSalon...")
	log.Info("Configuration loaded from %s", *configPath)

	// Фоновые компоненты живут до сигнала завершения
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Собираем зависимости: база, Redis, репозитории, сервисы, use cases
	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application: %v", err)
	}
	defer application.Close()

	// Администратор из конфигурации
	if cfg.Auth.AdminEmail != "" {
		created, err := application.Auth.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminName)
		if err != nil {
			log.Fatal("Failed to ensure admin account: %v", err)
		}
		if created {
			log.Info("Admin account created: %s", cfg.Auth.AdminEmail)
		}
	}

	// Фоновые процессы
	var wg sync.WaitGroup

	application.Dispatcher.Start(ctx)

	wg.Add(1)
	go func() {
		defer wg.Done()
		application.Hub.Run(ctx)
	}()

	if cfg.Scheduler.Enabled {
		sched := newScheduler(application, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sched.Run(ctx)
		}()
	} else {
		log.Info("Scheduler disabled")
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter.RunCleanup(ctx, rateLimitCleanupInterval)
		}()
		log.Info("Auth rate limit enabled: %.2f rps, burst=%d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      newRouter(application, limiter, log),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Планировщик останавливается первым, чтобы его уведомления успели попасть в очередь
	// Диспетчер дочитывает очередь с собственным контекстом
	stop()
	wg.Wait()
	application.Dispatcher.Stop()

	log.Info("Server stopped gracefully")
}

// newScheduler регистрирует периодические задачи
func newScheduler(a *app.App, log *logger.Logger) *scheduler.Scheduler {
	cfg := a.Config.Scheduler
	return scheduler.New(log,
		scheduler.Job{
			Name:     "generate_recurring",
			Interval: time.Duration(cfg.RecurringInterval) * time.Second,
			Run: func(ctx context.Context) error {
				res, err := a.GenerateRecurring.Execute(ctx, cfg.RecurringHorizonDays)
				if err != nil {
					return err
				}
				if len(res.Created) > 0 || len(res.Skipped) > 0 {
					log.Info("Recurring generation: created=%d, skipped=%d", len(res.Created), len(res.Skipped))
				}
				return nil
			},
		},
		scheduler.Job{
			Name:     "expire_waitlist",
			Interval: time.Duration(cfg.WaitlistInterval) * time.Second,
			Run: func(ctx context.Context) error {
				res, err := a.ExpireWaitlist.Execute(ctx)
				if err != nil {
					return err
				}
				if res.Expired > 0 {
					log.Info("Waitlist offers expired: expired=%d, promoted=%d", res.Expired, res.Promoted)
				}
				return nil
			},
		},
		scheduler.Job{
			Name:     "send_reminders",
			Interval: time.Duration(cfg.ReminderInterval) * time.Second,
			Run: func(ctx context.Context) error {
				_, err := a.SendReminders.Execute(ctx)
				return err
			},
		},
	)
}

// newRouter настраивает маршруты API
func newRouter(a *app.App, limiter *middleware.RateLimiter, log *logger.Logger) http.Handler {
	cfg := a.Config

	// Инициализируем handlers
	register := registerHandler.NewHandler(a.Auth, log)
	login := loginHandler.NewHandler(a.Auth, log)
	googleLogin := googleLoginHandler.NewHandler(a.Auth, log, strings.HasPrefix(cfg.Google.RedirectURL, "https://"))
	googleCallback := googleCallbackHandler.NewHandler(a.Auth, log)
	getProfile := getProfileHandler.NewHandler(a.Auth, log)

	listServices := listServicesHandler.NewHandler(a.Catalog, log)
	getService := getServiceHandler.NewHandler(a.Catalog, log)
	createService := createServiceHandler.NewHandler(a.Catalog, log)
	updateService := updateServiceHandler.NewHandler(a.Catalog, log)
	deactivateService := deactivateServiceHandler.NewHandler(a.Catalog, log)

	listProfessionals := listProfessionalsHandler.NewHandler(a.Professionals, log)
	createProfessional := createProfessionalHandler.NewHandler(a.Professionals, log)
	updateProfessional := updateProfessionalHandler.NewHandler(a.Professionals, log)

	getSettings := getSettingsHandler.NewHandler(a.Settings, log)
	listSettings := listSettingsHandler.NewHandler(a.Settings, log)
	updateSettings := updateSettingsHandler.NewHandler(a.Settings, log)
	deleteServiceSettings := deleteServiceSettingsHandler.NewHandler(a.Settings, log)
	getBusinessHours := getBusinessHoursHandler.NewHandler(a.Settings, log)
	updateBusinessHours := updateBusinessHoursHandler.NewHandler(a.Settings, log)

	getAvailableSlots := getAvailableSlotsHandler.NewHandler(a.Availability, log)
	createAppointment := createAppointmentHandler.NewHandler(a.CreateAppointment, log)
	getAppointment := getAppointmentHandler.NewHandler(a.Appointments, log)
	getMyAppointments := getMyAppointmentsHandler.NewHandler(a.Appointments, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(a.Appointments, log)
	listAppointments := listAppointmentsHandler.NewHandler(a.Appointments, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(a.Appointments, log)

	createTimeBlock := createTimeBlockHandler.NewHandler(a.TimeBlocks, log)
	listTimeBlocks := listTimeBlocksHandler.NewHandler(a.TimeBlocks, log)
	deleteTimeBlock := deleteTimeBlockHandler.NewHandler(a.TimeBlocks, log)

	joinWaitlist := joinWaitlistHandler.NewHandler(a.Waitlist, log)
	getMyWaitlist := getMyWaitlistHandler.NewHandler(a.Waitlist, log)
	leaveWaitlist := leaveWaitlistHandler.NewHandler(a.Waitlist, log)
	listWaitlist := listWaitlistHandler.NewHandler(a.Waitlist, log)

	createRecurring := createRecurringHandler.NewHandler(a.Recurring, log)
	listRecurring := listRecurringHandler.NewHandler(a.Recurring, log)
	deactivateRecurring := deactivateRecurringHandler.NewHandler(a.Recurring, log)
	generateRecurring := generateRecurringHandler.NewHandler(a.Recurring, log)

	validateCoupon := validateCouponHandler.NewHandler(a.Coupons, log)
	createCoupon := createCouponHandler.NewHandler(a.Coupons, log)
	listCoupons := listCouponsHandler.NewHandler(a.Coupons, log)
	updateCoupon := updateCouponHandler.NewHandler(a.Coupons, log)

	listCommissions := listCommissionsHandler.NewHandler(a.Commissions, log)
	markCommissionPaid := markCommissionPaidHandler.NewHandler(a.Commissions, log)

	createReview := createReviewHandler.NewHandler(a.Reviews, log)
	listReviews := listReviewsHandler.NewHandler(a.Reviews, log)
	listAllReviews := listAllReviewsHandler.NewHandler(a.Reviews, log)
	approveReview := approveReviewHandler.NewHandler(a.Reviews, log)
	deleteReview := deleteReviewHandler.NewHandler(a.Reviews, log)

	uploadImage := uploadImageHandler.NewHandler(a.Gallery, log, cfg.Uploads.MaxBytes)
	listGallery := listGalleryHandler.NewHandler(a.Gallery, log)
	deleteImage := deleteImageHandler.NewHandler(a.Gallery, log)

	listAudit := listAuditHandler.NewHandler(a.Audit, log)
	chatWS := chatWSHandler.NewHandler(a.Auth, a.Hub, cfg.Server.AllowedOrigins, log)
	health := healthHandler.NewHandler(a, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLog(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if a.Metrics != nil {
		r.Use(middleware.Metrics(a.Metrics, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, a.Metrics.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// Файлы галереи
	r.PathPrefix(cfg.Uploads.URLPrefix).Handler(
		http.StripPrefix(cfg.Uploads.URLPrefix, http.FileServer(http.Dir(a.Files.Dir()))),
	).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId:[0-9]+}", getService.Handle).Methods(http.MethodGet)
	api.HandleFunc("/professionals", listProfessionals.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/business-hours", getBusinessHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reviews", listReviews.Handle).Methods(http.MethodGet)
	api.HandleFunc("/gallery", listGallery.Handle).Methods(http.MethodGet)

	// --- Аутентификация (с ограничением частоты запросов) ---
	authRoutes := api.PathPrefix("/auth").Subrouter()
	if limiter != nil {
		authRoutes.Use(limiter.Middleware(log))
	}
	authRoutes.HandleFunc("/register", register.Handle).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", login.Handle).Methods(http.MethodPost)
	authRoutes.HandleFunc("/google", googleLogin.Handle).Methods(http.MethodGet)
	authRoutes.HandleFunc("/google/callback", googleCallback.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(a.Tokens, log))

	protected.HandleFunc("/me", getProfile.Handle).Methods(http.MethodGet)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/mine", getMyAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}/cancel", cancelAppointment.Handle).Methods(http.MethodPost)

	// --- Лист ожидания ---
	protected.HandleFunc("/waitlist", joinWaitlist.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/waitlist/mine", getMyWaitlist.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/waitlist/{entryId:[0-9]+}", leaveWaitlist.Handle).Methods(http.MethodDelete)

	// --- Купоны, отзывы, чат ---
	protected.HandleFunc("/coupons/validate", validateCoupon.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reviews", createReview.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/chat/ws", chatWS.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES
	// ============================================================

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)

	// --- Каталог и мастера ---
	admin.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/services", createService.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/services/{serviceId:[0-9]+}", updateService.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/services/{serviceId:[0-9]+}", deactivateService.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/professionals", listProfessionals.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/professionals", createProfessional.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/professionals/{professionalId:[0-9]+}", updateProfessional.Handle).Methods(http.MethodPut)

	// --- Настройки расписания ---
	admin.HandleFunc("/settings", listSettings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/settings/services/{serviceId:[0-9]+}", deleteServiceSettings.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/business-hours", updateBusinessHours.Handle).Methods(http.MethodPut)

	// --- Записи и блокировки ---
	admin.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId:[0-9]+}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/time-blocks", listTimeBlocks.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/time-blocks", createTimeBlock.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/time-blocks/{timeBlockId:[0-9]+}", deleteTimeBlock.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/waitlist", listWaitlist.Handle).Methods(http.MethodGet)

	// --- Повторяющиеся записи ---
	admin.HandleFunc("/recurring", listRecurring.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/recurring", createRecurring.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/recurring/generate", generateRecurring.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/recurring/{recurringId:[0-9]+}", deactivateRecurring.Handle).Methods(http.MethodDelete)

	// --- Купоны и комиссии ---
	admin.HandleFunc("/coupons", listCoupons.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/coupons", createCoupon.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/coupons/{couponId:[0-9]+}", updateCoupon.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/commissions", listCommissions.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/commissions/{commissionId:[0-9]+}/pay", markCommissionPaid.Handle).Methods(http.MethodPost)

	// --- Отзывы, галерея, аудит ---
	admin.HandleFunc("/reviews", listAllReviews.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reviews/{reviewId:[0-9]+}/approve", approveReview.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/reviews/{reviewId:[0-9]+}", deleteReview.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/gallery", uploadImage.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/gallery/{imageId:[0-9]+}", deleteImage.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/audit", listAudit.Handle).Methods(http.MethodGet)

	// CORS снаружи роутера: preflight OPTIONS не совпадает ни с одним маршрутом
	return middleware.CORS(cfg.Server.AllowedOrigins)(r)
}
