package loan

import (
	"time"
)

// Status 借阅状态
// 设计说明:
// 1. 使用string类型(与数据库存储和API表现一致)
// 2. overdue不单独落库:active借阅是否逾期由时间实时推导(见IsOverdue)
//    避免依赖定时任务改状态,查询时按due_at过滤即可
type Status string

const (
	StatusActive   Status = "active"   // 借阅中
	StatusReturned Status = "returned" // 已归还(终态)
	StatusLost     Status = "lost"     // 图书丢失(终态)
)

// IsValid 检查状态值是否合法
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusReturned, StatusLost:
		return true
	}
	return false
}

// Loan 借阅记录实体(聚合根)
// DDD设计说明:
// 1. Loan是借阅聚合的根实体,归还/丢失的状态机封装在实体行为中
// 2. 不直接关联Book/User对象,只保存外键(避免跨聚合引用)
// 3. ReturnedAt为空表示未归还
type Loan struct {
	ID         uint
	UserID     uint       // 借阅人用户ID
	BookID     uint       // 图书ID
	LoanedAt   time.Time  // 借出时间
	DueAt      time.Time  // 应还时间
	ReturnedAt *time.Time // 实际归还时间(未归还为nil)
	Status     Status     // 借阅状态
	Notes      string     // 备注
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewLoan 创建新借阅(工厂方法)
// 初始状态为active,借出时间为当前时间
func NewLoan(userID, bookID uint, dueAt time.Time, notes string) *Loan {
	now := time.Now()
	return &Loan{
		UserID:    userID,
		BookID:    bookID,
		LoanedAt:  now,
		DueAt:     dueAt,
		Status:    StatusActive,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
// 状态机设计,防止非法状态跳转(如已归还的借阅再次归还)
func (l *Loan) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusActive:   {StatusReturned, StatusLost}, // 借阅中→已归还/丢失
		StatusReturned: {},                           // 已归还→终态
		StatusLost:     {},                           // 丢失→终态
	}

	allowedTargets, exists := transitions[l.Status]
	if !exists {
		return false
	}

	for _, allowed := range allowedTargets {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
func (l *Loan) TransitionTo(target Status) error {
	if !l.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	l.Status = target
	l.UpdatedAt = time.Now()
	return nil
}

// Return 归还图书(领域行为)
// 业务规则:
// 1. 已归还的借阅再次归还返回ErrAlreadyReturned(幂等冲突显式报错)
// 2. 记录实际归还时间
func (l *Loan) Return(now time.Time) error {
	if l.Status == StatusReturned {
		return ErrAlreadyReturned
	}
	if err := l.TransitionTo(StatusReturned); err != nil {
		return err
	}
	l.ReturnedAt = &now
	return nil
}

// MarkLost 标记图书丢失(管理员操作)
func (l *Loan) MarkLost() error {
	return l.TransitionTo(StatusLost)
}

// IsOverdue 借阅是否已逾期(实时推导)
// 业务规则:未归还且当前时间晚于应还时间
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.Status == StatusActive && l.ReturnedAt == nil && now.After(l.DueAt)
}

// IsOwnedBy 检查借阅是否属于指定用户
// 权限校验,防止用户操作他人的借阅记录
func (l *Loan) IsOwnedBy(userID uint) bool {
	return l.UserID == userID
}
