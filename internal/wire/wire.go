package wire

import (
	"Nexus/internal/api"
	"Nexus/internal/api/config"
	"Nexus/internal/api/handler"
	"Nexus/internal/job"
	"Nexus/internal/pkg/channel"
	"Nexus/internal/pkg/cron"
	"Nexus/internal/pkg/kafka"
	mongodb "Nexus/internal/pkg/mongo"
	"Nexus/internal/repository"
	"Nexus/internal/service"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	projectMemberRepo := repository.NewProjectMemberRepo(db)
	messageRepo := mongodb.NewMessageRepo(mongoDB)
	notifyRepo := mongodb.NewNotificationRepo(mongoDB)

	registry := channel.NewRegistry()

	fanoutService := service.NewFanoutService(registry)
	messageService := service.NewMessageService(messageRepo, userRepo, fanoutService)
	notifyService := service.NewNotificationService(notifyRepo, fanoutService)

	handlers := &api.HandlersGroup{
		MessageHandler:      handler.NewMessageHandler(messageService),
		NotificationHandler: handler.NewNotificationHandler(notifyService),
		WsHandler:           handler.NewWsHandler(registry, projectMemberRepo, fanoutService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, notifyService)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(job.NewNotificationCleanJob(notifyRepo))

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
