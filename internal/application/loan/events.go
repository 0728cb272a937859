package loan

import (
	"context"
	"time"
)

// Transactor 事务执行器
// *mysql.TxManager实现此接口;定义在应用层便于测试注入
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 借阅事件发布接口
// 由pkg/mq的Publisher实现;MQ未启用时注入nil,事件只落库不外发
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// 借阅事件路由键
const (
	EventLoanCreated  = "loan.created"
	EventLoanReturned = "loan.returned"
	EventLoanLost     = "loan.lost"
)

// LoanEvent 借阅事件载荷
// 设计说明:事件在事务提交后发布,发布失败只记录日志不回滚——
// 数据库是唯一事实源,下游消费者(通知、统计)允许丢失个别事件
type LoanEvent struct {
	LoanID     uint      `json:"loan_id"`
	UserID     uint      `json:"user_id"`
	BookID     uint      `json:"book_id"`
	Action     string    `json:"action"` // created | returned | lost
	OccurredAt time.Time `json:"occurred_at"`
}

// publishEvent 发布借阅事件(发布失败不影响主流程)
func publishEvent(publisher EventPublisher, routingKey string, event LoanEvent) {
	if publisher == nil {
		return
	}
	// 发布失败只能靠日志排查,Publisher内部已记录
	_ = publisher.Publish(routingKey, event)
}
