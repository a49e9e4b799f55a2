package routes

import (
	"github.com/gofiber/fiber/v2"

	"quizlearn/backend/config"
	"quizlearn/backend/controllers"
	"quizlearn/backend/database"
	"quizlearn/backend/middleware"
	"quizlearn/backend/repos"
	"quizlearn/backend/services"
	"quizlearn/backend/utils"
	"quizlearn/backend/validators"
)

func SetupRoutes(app *fiber.App, client *database.Client, cfg *config.Config, logger *utils.Logger) {
	// Repos
	userRepo := repos.NewUserRepo(client, logger)
	topicRepo := repos.NewTopicRepo(client, logger)
	userTopicRepo := repos.NewUserTopicRepo(client, logger)
	lessonRepo := repos.NewLessonRepo(client, logger)
	progressRepo := repos.NewLessonProgressRepo(client, logger)
	questionRepo := repos.NewQuestionRepo(client, logger)
	answerRepo := repos.NewAnswerRepo(client, logger)
	chatRepo := repos.NewChatRepo(client, logger)

	// Services
	authService := services.NewAuthService(userRepo, logger, cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(userRepo, logger)
	topicService := services.NewTopicService(client, topicRepo, userTopicRepo, questionRepo, lessonRepo, progressRepo, logger)
	lessonService := services.NewLessonService(client, lessonRepo, topicRepo, progressRepo, logger)
	questionService := services.NewQuestionService(questionRepo, answerRepo, topicRepo, logger)
	chatService := services.NewChatService(chatRepo, logger)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(authService)
	adminMiddleware := middleware.AdminMiddleware(userService)

	overviewController := controllers.NewOverviewController(topicService, client)
	app.Get("/health", overviewController.Health)

	api := app.Group("/api")

	// Auth routes
	authController := controllers.NewAuthController(authService)
	api.Post("/auth/register", validators.Body[validators.RegisterRequest](), authController.Register)
	api.Post("/auth/login", validators.Body[validators.LoginRequest](), authController.Login)
	api.Post("/auth/logout", authController.Logout)

	// User routes
	userController := controllers.NewUserController(userService)
	api.Get("/users/me", authMiddleware, userController.GetMe)

	// Topics routes
	topicsController := controllers.NewTopicsController(topicService, lessonService)
	progressController := controllers.NewProgressController(topicService, lessonService, questionService)
	questionsController := controllers.NewQuestionsController(questionService)
	topics := api.Group("/topics", authMiddleware)
	topics.Get("/", topicsController.GetUserTopics)
	topics.Post("/", validators.Body[validators.CreateTopicRequest](), topicsController.CreateTopic)
	topics.Get("/:id", topicsController.GetTopic)
	topics.Patch("/:id", validators.Body[validators.UpdateTopicRequest](), topicsController.UpdateTopic)
	topics.Put("/:id", validators.Body[validators.UpdateTopicRequest](), topicsController.UpdateTopic)
	topics.Get("/:id/progress", progressController.GetTopicProgress)
	topics.Get("/:id/goal", topicsController.GetGoal)
	topics.Put("/:id/goal", validators.Body[validators.GoalRequest](), topicsController.UpdateGoal)
	topics.Get("/:id/lessons", topicsController.GetTopicLessons)
	topics.Get("/:id/questions", questionsController.GetTopicQuestions)
	topics.Post("/:id/questions", validators.Body[validators.CreateQuestionRequest](), questionsController.CreateQuestion)
	topics.Post("/:id/answers", validators.Body[validators.AnswerRequest](), questionsController.RecordAnswer)
	topics.Get("/:id/accuracy", progressController.GetAccuracy)

	// Lessons routes
	lessonsController := controllers.NewLessonsController(lessonService)
	lessons := api.Group("/lessons", authMiddleware)
	lessons.Post("/", validators.Body[validators.CreateLessonRequest](), lessonsController.CreateLesson)
	lessons.Get("/:id", lessonsController.GetLesson)
	lessons.Put("/:id", validators.Body[validators.UpdateLessonRequest](), lessonsController.UpdateLesson)
	lessons.Get("/:id/progress", progressController.GetLessonProgress)
	lessons.Put("/:id/progress", validators.Body[validators.LessonProgressRequest](), progressController.UpdateLessonProgress)

	// Chat routes
	chatController := controllers.NewChatController(chatService)
	chat := api.Group("/chat", authMiddleware)
	chat.Get("/lesson/:id", chatController.GetHistory)
	chat.Post("/lesson/:id/message", validators.Body[validators.ChatMessageRequest](), chatController.AddMessage)

	// Admin routes
	admin := api.Group("/admin", authMiddleware, adminMiddleware)
	admin.Get("/topics", overviewController.GetAllTopics)
	admin.Post("/users/:id/roles", validators.Body[validators.GrantRoleRequest](), userController.GrantRole)
}
