package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/biblioteca/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	// 学习要点：合理的连接池配置对性能至关重要
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	// 定义需要迁移的模型
	// 注意：这里需要使用GORM的模型定义（带tag），不是domain层的实体
	return db.AutoMigrate(
		&UserModel{},
		&CategoryModel{},
		&AuthorModel{},
		&BookModel{},
		&LoanModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	IsAdmin   bool           `gorm:"default:false;comment:管理员标记"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// CategoryModel GORM分类模型
// 设计说明:
// 1. 分类名称有唯一索引
// 2. 分类删除时,图书的category_id由外键约束置空(见BookModel)
type CategoryModel struct {
	ID          uint           `gorm:"primaryKey"`
	Name        string         `gorm:"uniqueIndex;size:100;not null;comment:分类名称"`
	Description string         `gorm:"type:text;comment:分类描述"`
	Active      bool           `gorm:"default:true;comment:是否启用"`
	CreatedAt   time.Time      `gorm:"comment:创建时间"`
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// AuthorModel GORM作者模型
// 设计说明:
// 1. first_name+last_name组合唯一索引(同名同姓视为同一作者)
// 2. 作者名下有图书时禁止删除(应用层CountBooks检查)
type AuthorModel struct {
	ID        uint           `gorm:"primaryKey"`
	FirstName string         `gorm:"uniqueIndex:idx_author_name;size:100;not null;comment:名"`
	LastName  string         `gorm:"uniqueIndex:idx_author_name;size:100;not null;comment:姓"`
	Birthdate *time.Time     `gorm:"comment:出生日期"`
	Country   string         `gorm:"size:100;comment:国别"`
	Biography string         `gorm:"type:text;comment:作者简介"`
	PhotoURL  string         `gorm:"size:500;comment:照片URL"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. ISBN有唯一索引,防止重复
// 3. CategoryID可空,分类删除时由外键约束置空(ON DELETE SET NULL)
// 4. Status与Stock同表存储,借阅事务中一条UPDATE同时落库
type BookModel struct {
	ID          uint           `gorm:"primaryKey"`
	ISBN        string         `gorm:"uniqueIndex;size:20;not null;comment:ISBN-13"`
	Title       string         `gorm:"index:idx_search;size:200;not null;comment:书名"` // 搜索索引
	Subtitle    string         `gorm:"size:200;comment:副标题"`
	AuthorID    uint           `gorm:"index;not null;comment:作者ID"`
	CategoryID  *uint          `gorm:"index;comment:分类ID(可空)"`
	Category    *CategoryModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Publisher   string         `gorm:"size:100;comment:出版社"`
	PublishedAt *time.Time     `gorm:"comment:出版日期"`
	PageCount   int            `gorm:"comment:页数"`
	Language    string         `gorm:"size:10;default:es;comment:语言"`
	Price       int64          `gorm:"index:idx_list;not null;comment:价格(分)"` // 排序索引
	Rating      float64        `gorm:"default:0;comment:评分(0-5)"`
	Stock       int            `gorm:"default:0;comment:库存数量"`
	Status      string         `gorm:"index;size:20;default:available;comment:状态(available/loaned/maintenance/lost)"`
	Active      bool           `gorm:"default:true;comment:是否上架"`
	CreatedBy   *uint          `gorm:"comment:登记人用户ID(可空)"`
	CoverURL    string         `gorm:"size:500;comment:封面图片URL"`
	Description string         `gorm:"type:text;comment:图书描述"`
	CreatedAt   time.Time      `gorm:"index:idx_list;comment:创建时间"` // 排序索引
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// LoanModel GORM借阅记录模型
// 设计说明:
// 1. Status使用string存储(与API表现一致,便于排查)
// 2. ReturnedAt为NULL表示未归还
// 3. (book_id, status)复合索引:统计未归还借阅、逾期查询都会用到
type LoanModel struct {
	ID         uint       `gorm:"primaryKey"`
	UserID     uint       `gorm:"index;not null;comment:借阅人用户ID"`
	BookID     uint       `gorm:"index:idx_book_status;not null;comment:图书ID"`
	LoanedAt   time.Time  `gorm:"index;not null;comment:借出时间"`
	DueAt      time.Time  `gorm:"index;not null;comment:应还时间"`
	ReturnedAt *time.Time `gorm:"comment:实际归还时间(NULL表示未归还)"`
	Status     string     `gorm:"index:idx_book_status;size:20;default:active;comment:状态(active/returned/lost)"`
	Notes      string     `gorm:"type:text;comment:备注"`
	CreatedAt  time.Time  `gorm:"comment:创建时间"`
	UpdatedAt  time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (LoanModel) TableName() string {
	return "loans"
}
