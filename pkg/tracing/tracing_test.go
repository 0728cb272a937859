package tracing

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const testCollectorURL = "localhost:4317"

// TestInitTracer 测试Tracer初始化
func TestInitTracer(t *testing.T) {
	t.Run("成功初始化Tracer", func(t *testing.T) {
		// 初始化Tracer（gRPC为惰性连接，Collector不在线也能初始化）
		shutdown, err := InitTracer("test-service", testCollectorURL)
		if err != nil {
			t.Fatalf("初始化Tracer失败: %v", err)
		}
		defer func() {
			// Collector不在线时flush会失败，只记录不报错
			if err := shutdown(context.Background()); err != nil {
				t.Logf("关闭Tracer: %v", err)
			}
		}()

		// 验证全局TracerProvider已设置
		tracer := otel.Tracer("test")
		if tracer == nil {
			t.Error("全局TracerProvider未设置")
		}

		t.Log("✅ Tracer初始化成功")
	})
}

// TestStartSpan 测试Span创建
func TestStartSpan(t *testing.T) {
	// 初始化Tracer
	shutdown, err := InitTracer("test-service", testCollectorURL)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("创建根Span", func(t *testing.T) {
		ctx := context.Background()

		// 创建根Span
		ctx, span := StartSpan(ctx, "test-service", "TestOperation")
		defer span.End()

		// 验证Span有效
		if !span.SpanContext().IsValid() {
			t.Error("Span无效")
		}

		// 验证TraceID存在
		traceID := span.SpanContext().TraceID().String()
		if traceID == "" || traceID == "00000000000000000000000000000000" {
			t.Errorf("TraceID无效: %s", traceID)
		}

		t.Logf("✅ 根Span创建成功, TraceID=%s", traceID)
	})

	t.Run("创建子Span", func(t *testing.T) {
		ctx := context.Background()

		// 创建根Span
		ctx, rootSpan := StartSpan(ctx, "test-service", "RootOperation")
		defer rootSpan.End()

		rootTraceID := rootSpan.SpanContext().TraceID().String()
		rootSpanID := rootSpan.SpanContext().SpanID().String()

		// 创建子Span
		ctx, childSpan := StartSpan(ctx, "test-service", "ChildOperation")
		defer childSpan.End()

		childTraceID := childSpan.SpanContext().TraceID().String()

		// 验证子Span继承了根Span的TraceID
		if childTraceID != rootTraceID {
			t.Errorf("子Span的TraceID不匹配: root=%s, child=%s", rootTraceID, childTraceID)
		}

		// 验证子Span有不同的SpanID
		childSpanID := childSpan.SpanContext().SpanID().String()
		if childSpanID == rootSpanID {
			t.Error("子Span的SpanID不应与根Span相同")
		}

		t.Logf("✅ 子Span创建成功, TraceID=%s, ParentSpanID=%s, ChildSpanID=%s",
			childTraceID, rootSpanID, childSpanID)
	})
}

// TestSpanAttributes 测试Span属性设置
func TestSpanAttributes(t *testing.T) {
	// 初始化Tracer
	shutdown, err := InitTracer("test-service", testCollectorURL)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	ctx := context.Background()
	ctx, span := StartSpan(ctx, "test-service", "TestAttributes")
	defer span.End()

	// 添加属性
	span.SetAttributes(
		attribute.String("user_id", "user-123"),
		attribute.Int("book_id", 5),
		attribute.Bool("is_admin", true),
		attribute.Float64("rating", 4.5),
	)

	// 验证属性已添加（无法直接读取，但可以在Jaeger UI查看）
	t.Log("✅ Span属性设置成功")
}

// TestSpanStatus 测试Span状态设置
func TestSpanStatus(t *testing.T) {
	// 初始化Tracer
	shutdown, err := InitTracer("test-service", testCollectorURL)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("成功状态", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := StartSpan(ctx, "test-service", "SuccessOperation")
		defer span.End()

		// 设置成功状态
		span.SetStatus(codes.Ok, "操作成功")

		t.Log("✅ 成功状态设置成功")
	})

	t.Run("失败状态", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := StartSpan(ctx, "test-service", "FailedOperation")
		defer span.End()

		// 模拟错误
		err := context.DeadlineExceeded

		// 记录错误
		span.RecordError(err)

		// 设置失败状态
		span.SetStatus(codes.Error, err.Error())

		t.Log("✅ 失败状态设置成功")
	})
}

// TestExtractTraceID 测试TraceID提取
func TestExtractTraceID(t *testing.T) {
	// 初始化Tracer
	shutdown, err := InitTracer("test-service", testCollectorURL)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("从有效Context提取TraceID", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := StartSpan(ctx, "test-service", "TestExtract")
		defer span.End()

		// 提取TraceID
		traceID := ExtractTraceID(ctx)

		// 验证TraceID非空
		if traceID == "" {
			t.Error("TraceID为空")
		}

		// 验证TraceID长度（32位十六进制）
		if len(traceID) != 32 {
			t.Errorf("TraceID长度错误: expected=32, got=%d", len(traceID))
		}

		t.Logf("✅ TraceID提取成功: %s", traceID)
	})

	t.Run("从无效Context提取TraceID", func(t *testing.T) {
		ctx := context.Background()

		// 提取TraceID（无Span）
		traceID := ExtractTraceID(ctx)

		// 验证返回空字符串
		if traceID != "" {
			t.Errorf("期望空字符串，实际: %s", traceID)
		}

		t.Log("✅ 无效Context返回空TraceID")
	})
}

// TestExtractSpanID 测试SpanID提取
func TestExtractSpanID(t *testing.T) {
	// 初始化Tracer
	shutdown, err := InitTracer("test-service", testCollectorURL)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("从有效Context提取SpanID", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := StartSpan(ctx, "test-service", "TestExtractSpanID")
		defer span.End()

		// 提取SpanID
		spanID := ExtractSpanID(ctx)

		// 验证SpanID非空
		if spanID == "" {
			t.Error("SpanID为空")
		}

		// 验证SpanID长度（16位十六进制）
		if len(spanID) != 16 {
			t.Errorf("SpanID长度错误: expected=16, got=%d", len(spanID))
		}

		t.Logf("✅ SpanID提取成功: %s", spanID)
	})

	t.Run("从无效Context提取SpanID", func(t *testing.T) {
		ctx := context.Background()

		// 提取SpanID（无Span）
		spanID := ExtractSpanID(ctx)

		// 验证返回空字符串
		if spanID != "" {
			t.Errorf("期望空字符串，实际: %s", spanID)
		}

		t.Log("✅ 无效Context返回空SpanID")
	})
}

// TestRealWorldScenario 真实场景：模拟借阅创建流程
func TestRealWorldScenario(t *testing.T) {
	// 初始化Tracer
	shutdown, err := InitTracer("test-service", testCollectorURL)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	ctx := context.Background()

	// 模拟借阅创建
	err = createLoan(ctx, "user-123", "book-1")
	if err != nil {
		t.Errorf("借阅创建失败: %v", err)
	}

	t.Log("✅ 真实场景测试通过，请在Jaeger UI查看追踪: http://localhost:16686")
	t.Log("   Service: test-service")
	t.Log("   Operation: CreateLoan")
}

// 模拟业务函数：创建借阅
func createLoan(ctx context.Context, userID, bookID string) error {
	// 创建根Span
	ctx, span := StartSpan(ctx, "test-service", "CreateLoan")
	defer span.End()

	// 添加业务属性
	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("book_id", bookID),
	)

	// 步骤1：检查图书可借
	if err := checkAvailability(ctx, bookID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// 步骤2：写入借阅记录
	if err := saveLoan(ctx, userID, bookID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// 步骤3：扣减库存
	if err := deductStock(ctx, bookID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "借阅创建成功")
	return nil
}

// 模拟业务函数：检查图书可借
func checkAvailability(ctx context.Context, bookID string) error {
	ctx, span := StartSpan(ctx, "test-service", "CheckAvailability")
	defer span.End()

	span.SetAttributes(attribute.String("book_id", bookID))

	// 模拟数据库查询耗时
	time.Sleep(10 * time.Millisecond)

	span.SetStatus(codes.Ok, "图书可借")
	return nil
}

// 模拟业务函数：保存借阅记录
func saveLoan(ctx context.Context, userID, bookID string) error {
	ctx, span := StartSpan(ctx, "test-service", "SaveLoan")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("book_id", bookID),
	)

	// 模拟数据库写入耗时
	time.Sleep(20 * time.Millisecond)

	span.SetStatus(codes.Ok, "借阅记录保存成功")
	return nil
}

// 模拟业务函数：扣减库存
func deductStock(ctx context.Context, bookID string) error {
	ctx, span := StartSpan(ctx, "test-service", "DeductStock")
	defer span.End()

	span.SetAttributes(attribute.String("book_id", bookID))

	// 模拟行锁与更新耗时
	time.Sleep(15 * time.Millisecond)

	span.SetStatus(codes.Ok, "库存扣减成功")
	return nil
}
