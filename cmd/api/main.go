package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appauthor "github.com/xiebiao/biblioteca/internal/application/author"
	appbook "github.com/xiebiao/biblioteca/internal/application/book"
	appcategory "github.com/xiebiao/biblioteca/internal/application/category"
	apploan "github.com/xiebiao/biblioteca/internal/application/loan"
	appuser "github.com/xiebiao/biblioteca/internal/application/user"
	"github.com/xiebiao/biblioteca/internal/domain/author"
	"github.com/xiebiao/biblioteca/internal/domain/book"
	"github.com/xiebiao/biblioteca/internal/domain/category"
	"github.com/xiebiao/biblioteca/internal/domain/user"
	"github.com/xiebiao/biblioteca/internal/infrastructure/config"
	"github.com/xiebiao/biblioteca/internal/infrastructure/googlebooks"
	"github.com/xiebiao/biblioteca/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/biblioteca/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/biblioteca/internal/interface/http/handler"
	"github.com/xiebiao/biblioteca/internal/interface/http/middleware"
	"github.com/xiebiao/biblioteca/pkg/jwt"
	"github.com/xiebiao/biblioteca/pkg/metrics"
	"github.com/xiebiao/biblioteca/pkg/mq"
	"github.com/xiebiao/biblioteca/pkg/response"
	"github.com/xiebiao/biblioteca/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入,组装链为 Repository ← Service ← UseCase ← Handler
// （wire.go中有等价的Wire配置,运行`wire gen ./cmd/api`可生成自动注入版本）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化监控指标
	metrics.InitMetrics()

	// 3. 初始化链路追踪（可选）
	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorURL)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(ctx); err != nil {
				log.Printf("关闭链路追踪失败: %v", err)
			}
		}()
		fmt.Printf("✓ 链路追踪已启用: %s\n", cfg.Tracing.CollectorURL)
	}

	// 4. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 5. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 6. 初始化消息队列（可选,发布失败不影响主流程）
	var publisher apploan.EventPublisher
	if cfg.MQ.Enabled {
		p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化RabbitMQ失败: %v", err)
		}
		defer p.Close()
		publisher = p
		fmt.Printf("✓ 事件发布已启用: exchange=%s\n", cfg.MQ.Exchange)
	}

	// 7. 依赖注入（手动组装）

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	authorRepo := mysql.NewAuthorRepository(db)
	loanRepo := mysql.NewLoanRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	rateLimitStore := redis.NewRateLimitStore(redisClient)
	booksClient := googlebooks.NewClient(cfg)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)
	bookService := book.NewService(bookRepo)
	categoryService := category.NewService(categoryRepo)
	authorService := author.NewService(authorRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	refreshUseCase := appuser.NewRefreshTokenUseCase(jwtManager, sessionStore)

	manageCategoryUseCase := appcategory.NewManageCategoryUseCase(categoryService)
	manageAuthorUseCase := appauthor.NewManageAuthorUseCase(authorService)

	registerBookUseCase := appbook.NewRegisterBookUseCase(bookService, authorService, categoryService)
	getBookUseCase := appbook.NewGetBookUseCase(bookService, authorService)
	listBooksUseCase := appbook.NewListBooksUseCase(bookService, authorService)
	updateBookUseCase := appbook.NewUpdateBookUseCase(bookService)
	deleteBookUseCase := appbook.NewDeleteBookUseCase(bookRepo, loanRepo)
	adjustStockUseCase := appbook.NewAdjustStockUseCase(bookRepo, txManager)
	importBookUseCase := appbook.NewImportBookUseCase(bookService, authorService, authorRepo, booksClient)

	createLoanUseCase := apploan.NewCreateLoanUseCase(loanRepo, bookRepo, txManager, publisher)
	returnLoanUseCase := apploan.NewReturnLoanUseCase(loanRepo, bookRepo, txManager, publisher)
	markLostUseCase := apploan.NewMarkLostUseCase(loanRepo, bookRepo, txManager, publisher)
	listLoansUseCase := apploan.NewListLoansUseCase(loanRepo)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase, refreshUseCase)
	categoryHandler := handler.NewCategoryHandler(manageCategoryUseCase)
	authorHandler := handler.NewAuthorHandler(manageAuthorUseCase)
	bookHandler := handler.NewBookHandler(
		registerBookUseCase,
		getBookUseCase,
		listBooksUseCase,
		updateBookUseCase,
		deleteBookUseCase,
		adjustStockUseCase,
		importBookUseCase,
	)
	loanHandler := handler.NewLoanHandler(createLoanUseCase, returnLoanUseCase, markLostUseCase, listLoansUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 8. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.Metrics())
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimitMiddleware(rateLimitStore, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		r.Use(rateLimiter.Limit())
	}

	// 9. 注册路由
	registerRoutes(r, userHandler, categoryHandler, authorHandler, bookHandler, loanHandler, authMiddleware)

	// 10. 启动服务（支持优雅关闭）
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   访问地址: http://localhost%s\n", addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   监控指标: http://localhost%s/metrics\n", addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// 给在途请求一个收尾窗口,超时后强制退出
	fmt.Println("正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("关闭服务失败: %v", err)
	}
	fmt.Println("服务已关闭")
}

// registerRoutes 注册路由
// 权限分三档:公开(图书/分类/作者查询)、登录(借还书)、管理员(馆藏与借阅管理)
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	authorHandler *handler.AuthorHandler,
	bookHandler *handler.BookHandler,
	loanHandler *handler.LoanHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// 用户模块
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/refresh", userHandler.Refresh)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 图书模块:查询公开,写操作仅管理员
		books := v1.Group("/books")
		{
			// 列表挂OptionalAuth:管理员带Token可用include_inactive查看下架图书
			books.GET("", authMiddleware.OptionalAuth(), bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.GET("/isbn/:isbn", bookHandler.GetBookByISBN)

			booksAdmin := books.Group("", authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
			{
				booksAdmin.POST("", bookHandler.RegisterBook)
				booksAdmin.POST("/import", bookHandler.ImportBook)
				booksAdmin.PUT("/:id", bookHandler.UpdateBook)
				booksAdmin.DELETE("/:id", bookHandler.DeleteBook)
				booksAdmin.POST("/:id/stock", bookHandler.AdjustStock)
			}
		}

		// 分类模块
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/:id", categoryHandler.GetCategory)

			categoriesAdmin := categories.Group("", authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
			{
				categoriesAdmin.POST("", categoryHandler.CreateCategory)
				categoriesAdmin.PUT("/:id", categoryHandler.UpdateCategory)
				categoriesAdmin.DELETE("/:id", categoryHandler.DeleteCategory)
			}
		}

		// 作者模块
		authors := v1.Group("/authors")
		{
			authors.GET("", authorHandler.ListAuthors)
			authors.GET("/:id", authorHandler.GetAuthor)

			authorsAdmin := authors.Group("", authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
			{
				authorsAdmin.POST("", authorHandler.CreateAuthor)
				authorsAdmin.PUT("/:id", authorHandler.UpdateAuthor)
				authorsAdmin.DELETE("/:id", authorHandler.DeleteAuthor)
			}
		}

		// 借阅模块:全部需要登录,标记丢失仅管理员
		loans := v1.Group("/loans")
		loans.Use(authMiddleware.RequireAuth())
		{
			loans.POST("", loanHandler.CreateLoan)
			loans.GET("", loanHandler.ListLoans)
			loans.POST("/:id/return", loanHandler.ReturnLoan)
			loans.POST("/:id/lost", authMiddleware.RequireAdmin(), loanHandler.MarkLost)
		}
	}
}
