//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入（如Spring的@Autowired）不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

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
	"github.com/xiebiao/biblioteca/pkg/mq"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,        // 加载配置文件
	mysql.NewDB,        // 创建MySQL连接
	redis.NewClient,    // 创建Redis连接
	googlebooks.NewClient, // Google Books客户端
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewCategoryRepository,
	mysql.NewAuthorRepository,
	mysql.NewLoanRepository,
	mysql.NewTxManager,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
	category.NewService,
	author.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appcategory.NewManageCategoryUseCase,
	appauthor.NewManageAuthorUseCase,
	appbook.NewRegisterBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewAdjustStockUseCase,
	appbook.NewImportBookUseCase,
	apploan.NewCreateLoanUseCase,
	apploan.NewReturnLoanUseCase,
	apploan.NewMarkLostUseCase,
	apploan.NewListLoansUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewCategoryHandler,
	handler.NewAuthorHandler,
	handler.NewBookHandler,
	handler.NewLoanHandler,
)

// bindingSet 接口绑定
// 教学要点：用例依赖的是接口（Transactor、EventPublisher、MetadataClient），
// Wire需要知道用哪个具体实现来满足接口
var bindingSet = wire.NewSet(
	wire.Bind(new(appbook.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(apploan.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(appbook.MetadataClient), new(*googlebooks.Client)),
	provideEventPublisher,
)

// provideJWTManager 从配置创建JWT管理器
// Wire无法自动从Config提取字段参数，所以需要手动编写Provider
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideEventPublisher 创建事件发布器
// MQ未启用时返回nil，用例侧对nil发布器直接跳过发布
func provideEventPublisher(cfg *config.Config) apploan.EventPublisher {
	if !cfg.MQ.Enabled {
		return nil
	}
	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		log.Printf("初始化RabbitMQ失败,事件发布不可用: %v", err)
		return nil
	}
	return p
}

// provideGinEngine 创建并配置Gin引擎
// 路由注册与main.go中的registerRoutes保持一致,另加Swagger文档路由
func provideGinEngine(
	cfg *config.Config,
	client *goredis.Client,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	authorHandler *handler.AuthorHandler,
	bookHandler *handler.BookHandler,
	loanHandler *handler.LoanHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.Metrics())
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimitMiddleware(
			redis.NewRateLimitStore(client),
			cfg.RateLimit.Limit,
			cfg.RateLimit.Window,
		)
		r.Use(rateLimiter.Limit())
	}

	// Swagger文档路由
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	// 生产环境建议禁用或添加访问控制
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, userHandler, categoryHandler, authorHandler, bookHandler, loanHandler, authMiddleware)

	return r
}

// InitializeApp 初始化整个应用
// wire.Build告诉Wire需要哪些Provider来构建*gin.Engine,
// Wire按依赖关系自动排序并生成初始化代码
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		bindingSet,
		provideGinEngine,
	)

	// 占位返回值,实际代码由wire_gen.go生成
	return nil, nil
}
