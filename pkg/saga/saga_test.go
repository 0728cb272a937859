package saga

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestSaga_Execute_Success 测试所有步骤成功的场景
func TestSaga_Execute_Success(t *testing.T) {
	executed := make([]string, 0)

	saga := NewSaga(5 * time.Second)

	// 添加步骤1：创建作者
	saga.AddStep("创建作者",
		func(ctx context.Context) error {
			executed = append(executed, "创建作者")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "删除作者")
			return nil
		},
	)

	// 添加步骤2：登记图书
	saga.AddStep("登记图书",
		func(ctx context.Context) error {
			executed = append(executed, "登记图书")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "回滚图书")
			return nil
		},
	)

	// 执行Saga
	err := saga.Execute(context.Background())
	if err != nil {
		t.Fatalf("Saga执行失败: %v", err)
	}

	// 验证执行顺序
	if len(executed) != 2 {
		t.Errorf("期望执行2个步骤，实际执行%d个", len(executed))
	}

	if executed[0] != "创建作者" || executed[1] != "登记图书" {
		t.Errorf("执行顺序错误: %v", executed)
	}
}

// TestSaga_Execute_FailureAndCompensate 测试步骤失败触发补偿
func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	executed := make([]string, 0)

	saga := NewSaga(5 * time.Second)

	// 步骤1：创建作者（成功）
	saga.AddStep("创建作者",
		func(ctx context.Context) error {
			executed = append(executed, "创建作者")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "删除作者")
			return nil
		},
	)

	// 步骤2：登记图书（成功）
	saga.AddStep("登记图书",
		func(ctx context.Context) error {
			executed = append(executed, "登记图书")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "回滚图书")
			return nil
		},
	)

	// 步骤3：发送通知（失败）
	saga.AddStep("发送通知",
		func(ctx context.Context) error {
			executed = append(executed, "发送通知")
			return errors.New("余额不足") // 模拟发送通知失败
		},
		func(ctx context.Context) error {
			executed = append(executed, "退款")
			return nil
		},
	)

	// 执行Saga（应该失败）
	err := saga.Execute(context.Background())
	if err == nil {
		t.Fatal("Saga应该失败但返回成功")
	}

	// 验证执行顺序：正向3步 + 补偿2步（逆序）
	// 期望：创建作者 → 登记图书 → 发送通知（失败） → 回滚图书 → 删除作者
	expected := []string{"创建作者", "登记图书", "发送通知", "回滚图书", "删除作者"}

	if len(executed) != len(expected) {
		t.Errorf("期望执行%d个步骤，实际执行%d个: %v", len(expected), len(executed), executed)
	}

	for i, step := range expected {
		if executed[i] != step {
			t.Errorf("步骤%d期望'%s'，实际'%s'", i, step, executed[i])
		}
	}
}

// TestSaga_Execute_Timeout 测试超时触发补偿
func TestSaga_Execute_Timeout(t *testing.T) {
	executed := make([]string, 0)

	saga := NewSaga(100 * time.Millisecond) // 设置100ms超时

	// 步骤1：快速执行
	saga.AddStep("快速步骤",
		func(ctx context.Context) error {
			executed = append(executed, "快速步骤")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "快速步骤补偿")
			return nil
		},
	)

	// 步骤2：慢速执行（超过超时时间）
	saga.AddStep("慢速步骤",
		func(ctx context.Context) error {
			select {
			case <-time.After(200 * time.Millisecond):
				executed = append(executed, "慢速步骤")
				return nil
			case <-ctx.Done():
				// Context超时，返回错误
				return ctx.Err()
			}
		},
		func(ctx context.Context) error {
			executed = append(executed, "慢速步骤补偿")
			return nil
		},
	)

	// 执行Saga（应该超时）
	err := saga.Execute(context.Background())
	if err == nil {
		t.Fatal("Saga应该超时但返回成功")
	}

	// 验证触发了补偿
	if len(executed) < 2 {
		t.Errorf("超时后应该触发补偿，实际执行: %v", executed)
	}

	if executed[len(executed)-1] != "快速步骤补偿" {
		t.Errorf("期望最后一步是补偿，实际: %v", executed)
	}
}

// TestSaga_CompensateIdempotency 测试补偿幂等性示例
func TestSaga_CompensateIdempotency(t *testing.T) {
	// 模拟已执行补偿的记录
	compensateLog := make(map[string]bool)

	// 幂等的补偿函数
	createIdempotentCompensate := func(orderID string) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			idempotencyKey := "compensate-order-" + orderID

			// 检查是否已执行
			if compensateLog[idempotencyKey] {
				// 已执行过，直接返回成功
				return nil
			}

			// 执行补偿操作
			// ... 实际的业务逻辑 ...

			// 记录幂等键
			compensateLog[idempotencyKey] = true
			return nil
		}
	}

	saga := NewSaga(5 * time.Second)
	saga.AddStep("登记图书",
		func(ctx context.Context) error {
			return nil
		},
		createIdempotentCompensate("12345"),
	)

	// 第一次执行补偿
	saga.executed = saga.steps // 模拟步骤已执行
	saga.compensate(context.Background())

	if len(compensateLog) != 1 {
		t.Errorf("期望记录1条幂等日志，实际%d条", len(compensateLog))
	}

	// 第二次执行补偿（模拟重试）
	saga.executed = saga.steps
	saga.compensate(context.Background())

	// 验证幂等键只记录一次
	if len(compensateLog) != 1 {
		t.Errorf("幂等性失败：期望记录1条日志，实际%d条", len(compensateLog))
	}
}

// ==================== 实战示例：图书导入Saga ====================

// 模拟真实的按ISBN导入场景
type ImportSagaExample struct {
	isbn          string
	authorID      uint
	bookID        uint
	authorCreated bool
	bookCreated   bool
	notified      bool
}

func (o *ImportSagaExample) CreateImportSaga() *Saga {
	saga := NewSaga(30 * time.Second)

	// 步骤1：创建作者
	saga.AddStep("创建作者",
		func(ctx context.Context) error {
			// author, err := authorService.CreateAuthor(ctx, firstName, lastName, ...)
			o.authorCreated = true
			o.authorID = 42 // 模拟生成的作者ID
			return nil
		},
		func(ctx context.Context) error {
			// authorRepo.Delete(ctx, o.authorID)
			o.authorCreated = false
			return nil
		},
	)

	// 步骤2：登记图书
	saga.AddStep("登记图书",
		func(ctx context.Context) error {
			// book, err := bookService.RegisterBook(ctx, params)
			o.bookCreated = true
			o.bookID = 12345 // 模拟生成的图书ID
			return nil
		},
		func(ctx context.Context) error {
			// bookRepo.Delete(ctx, o.bookID)
			o.bookCreated = false
			return nil
		},
	)

	// 步骤3：发送通知
	saga.AddStep("发送通知",
		func(ctx context.Context) error {
			// publisher.Publish("book.imported", event)
			o.notified = true
			return nil
		},
		nil, // 通知无需补偿
	)

	return saga
}

func TestImportSagaExample_Success(t *testing.T) {
	example := &ImportSagaExample{isbn: "9788437604947"}

	saga := example.CreateImportSaga()
	err := saga.Execute(context.Background())

	if err != nil {
		t.Fatalf("导入Saga执行失败: %v", err)
	}

	// 验证所有步骤都成功
	if !example.authorCreated || !example.bookCreated || !example.notified {
		t.Error("导入Saga未完全执行")
	}
}

func TestImportSagaExample_RegisterFailed(t *testing.T) {
	example := &ImportSagaExample{isbn: "9788437604947"}

	saga := example.CreateImportSaga()

	// 修改登记图书步骤，模拟ISBN冲突
	saga.steps[1].Action = func(ctx context.Context) error {
		return errors.New("ISBN已存在")
	}

	err := saga.Execute(context.Background())

	if err == nil {
		t.Fatal("登记失败应该触发Saga失败")
	}

	// 验证补偿已执行（新建的作者已删除）
	if example.authorCreated || example.bookCreated {
		t.Error("补偿未执行，数据状态错误")
	}
}

// ==================== 性能测试 ====================

// BenchmarkSaga_Execute 性能基准测试
func BenchmarkSaga_Execute(b *testing.B) {
	saga := NewSaga(5 * time.Second)

	saga.AddStep("步骤1", func(ctx context.Context) error { return nil }, nil)
	saga.AddStep("步骤2", func(ctx context.Context) error { return nil }, nil)
	saga.AddStep("步骤3", func(ctx context.Context) error { return nil }, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = saga.Execute(context.Background())
		// 重置执行状态
		saga.executed = nil
	}
}
