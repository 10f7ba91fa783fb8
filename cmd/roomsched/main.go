package main

import (
	"roomsched/internal/bookings/events"
	bookingshandler "roomsched/internal/bookings/handler"
	bookingsrepo "roomsched/internal/bookings/repository"
	bookingsservice "roomsched/internal/bookings/service"
	"roomsched/internal/bookings/validator"
	roomsrepo "roomsched/internal/rooms/repository"
	schedulehandler "roomsched/internal/schedule/handler"
	scheduleservice "roomsched/internal/schedule/service"
	"roomsched/pkg/app"
	"roomsched/pkg/config"
	"roomsched/pkg/kafka"
)

const ServiceName = "roomsched"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting room scheduling service")

	bookingService, scheduleService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		bookingshandler.NewSeriesHandler(bookingService, cfg.Log),
		schedulehandler.NewScheduleHandler(scheduleService, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (bookingsservice.BookingService, scheduleservice.ScheduleService) {
	roomRepo := roomsrepo.NewMongoRoomRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewRoomLockRepository(cfg)
	seriesRepo := bookingsrepo.NewMongoSeriesRepository(cfg)

	bookingValidator := validator.NewBookingValidator(validator.NewPolicy(cfg), cfg.Log)
	publisher := initPublisher(cfg)

	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		seriesRepo,
		roomRepo,
		bookingValidator,
		publisher,
		cfg,
	)
	scheduleService := scheduleservice.NewScheduleService(roomRepo, bookingRepo, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return bookingService, scheduleService
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.KafkaEventsEnable {
		return events.NoopPublisher{}
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}
	return events.NewKafkaPublisher(producer, cfg.Log)
}
