package integration

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoanLifecycle 测试完整的借还流程
//
// 教学说明：
// 这是一个端到端(E2E)测试，验证 借书 → 查询 → 还书 的完整生命周期
// 以及归还后库存恢复、重复归还被拒绝
func TestLoanLifecycle(t *testing.T) {
	RequireServer(t)
	adminToken := AdminToken(t)
	_, token := RegisterTestUser(t, "loan_tester")

	bookID := CreateTestBook(t, adminToken, "《借阅流程测试》", 2)

	// Step 1: 借书
	t.Log("➜ Step 1: 借书")
	loanReq := map[string]interface{}{"book_id": bookID}
	loanResp := PostJSON(t, BaseURL+"/loans", loanReq, token)
	require.Equal(t, 0, loanResp.Code, "借书失败: %s", loanResp.Message)

	var loanData LoanData
	require.NoError(t, json.Unmarshal(loanResp.Data, &loanData))
	assert.Equal(t, "active", loanData.Status)
	assert.NotEmpty(t, loanData.DueAt, "应还时间应按默认借期生成")
	t.Logf("✓ 借书成功，借阅ID: %d, 应还时间: %s", loanData.LoanID, loanData.DueAt)

	// Step 2: 库存应减1
	bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
	require.Equal(t, 0, bookResp.Code)
	var bookData BookData
	require.NoError(t, json.Unmarshal(bookResp.Data, &bookData))
	assert.Equal(t, 1, bookData.Stock, "借出后库存应减1")

	// Step 3: 借阅列表里能看到这条在借记录
	listResp := GetJSON(t, BaseURL+"/loans?status=active", token)
	require.Equal(t, 0, listResp.Code)
	var listData LoanListData
	require.NoError(t, json.Unmarshal(listResp.Data, &listData))
	found := false
	for _, item := range listData.List {
		if item.ID == loanData.LoanID {
			found = true
			assert.Equal(t, "active", item.Status)
			assert.False(t, item.IsOverdue, "刚借出不应逾期")
		}
	}
	assert.True(t, found, "借阅列表应包含刚创建的借阅")

	// Step 4: 还书
	t.Log("➜ Step 4: 还书")
	returnResp := PostJSON(t, fmt.Sprintf("%s/loans/%d/return", BaseURL, loanData.LoanID), nil, token)
	require.Equal(t, 0, returnResp.Code, "还书失败: %s", returnResp.Message)

	var returnData ReturnData
	require.NoError(t, json.Unmarshal(returnResp.Data, &returnData))
	assert.False(t, returnData.WasOverdue, "按时归还不应标记逾期")
	t.Logf("✓ 还书成功，归还时间: %s", returnData.ReturnedAt)

	// Step 5: 库存恢复
	bookResp = GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
	require.Equal(t, 0, bookResp.Code)
	require.NoError(t, json.Unmarshal(bookResp.Data, &bookData))
	assert.Equal(t, 2, bookData.Stock, "归还后库存应恢复")

	// Step 6: 重复归还应被拒绝
	t.Log("➜ Step 6: 重复归还")
	dupResp := PostJSON(t, fmt.Sprintf("%s/loans/%d/return", BaseURL, loanData.LoanID), nil, token)
	assert.NotEqual(t, 0, dupResp.Code, "重复归还应失败")
	t.Logf("✓ 重复归还被拒绝: %s", dupResp.Message)
}

// TestLoanPermission 测试借阅归属校验
//
// 教学说明：
// 还书只能由借阅人本人（或管理员）操作，
// 其他用户拿到借阅ID也不能代还
func TestLoanPermission(t *testing.T) {
	RequireServer(t)
	adminToken := AdminToken(t)
	_, tokenA := RegisterTestUser(t, "borrower_a")
	_, tokenB := RegisterTestUser(t, "borrower_b")

	bookID := CreateTestBook(t, adminToken, "《权限测试图书》", 1)

	loanResp := PostJSON(t, BaseURL+"/loans", map[string]interface{}{"book_id": bookID}, tokenA)
	require.Equal(t, 0, loanResp.Code, "借书失败: %s", loanResp.Message)

	var loanData LoanData
	require.NoError(t, json.Unmarshal(loanResp.Data, &loanData))

	t.Run("他人不能代还", func(t *testing.T) {
		resp := PostJSON(t, fmt.Sprintf("%s/loans/%d/return", BaseURL, loanData.LoanID), nil, tokenB)
		assert.NotEqual(t, 0, resp.Code, "非借阅人还书应被拒绝")
	})

	t.Run("管理员可以代还", func(t *testing.T) {
		resp := PostJSON(t, fmt.Sprintf("%s/loans/%d/return", BaseURL, loanData.LoanID), nil, adminToken)
		assert.Equal(t, 0, resp.Code, "管理员代还应成功: %s", resp.Message)
	})

	t.Run("普通用户看不到他人借阅", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/loans", tokenB)
		require.Equal(t, 0, resp.Code)

		var listData LoanListData
		require.NoError(t, json.Unmarshal(resp.Data, &listData))
		for _, item := range listData.List {
			assert.NotEqual(t, loanData.LoanID, item.ID, "用户B的列表不应出现用户A的借阅")
		}
	})
}

// TestLoanConcurrency 测试并发借阅防超借
//
// 教学说明：
// 这是本项目最重要的测试之一，验证了悲观锁防超借的正确性
//
// 场景设计：
// - 库存：1本
// - 并发请求：10个用户同时借同一本书
// - 预期结果：恰好1人成功，其余9人收到"图书不可借"
//
// 技术要点：
// - 使用 sync.WaitGroup 等待所有goroutine完成
// - 使用 sync.Mutex 保护共享变量（成功/失败计数）
// - SELECT FOR UPDATE 确保同一时刻只有一个事务能获取图书行锁
func TestLoanConcurrency(t *testing.T) {
	RequireServer(t)
	adminToken := AdminToken(t)

	t.Run("最后一本只有一人借到（1库存，10并发）", func(t *testing.T) {
		bookID := CreateTestBook(t, adminToken, "《并发借阅测试》", 1)

		// 注册10个借阅人
		tokens := make([]string, 0, 10)
		for i := 1; i <= 10; i++ {
			_, token := RegisterTestUser(t, fmt.Sprintf("racer%d", i))
			tokens = append(tokens, token)
		}

		var (
			wg           sync.WaitGroup
			mu           sync.Mutex
			successCount int
			failCount    int
		)

		for i, token := range tokens {
			wg.Add(1)
			go func(idx int, userToken string) {
				defer wg.Done()

				resp := PostJSON(t, BaseURL+"/loans", map[string]interface{}{"book_id": bookID}, userToken)

				mu.Lock()
				if resp.Code == 0 {
					successCount++
					t.Logf("  [借阅人%02d] ✓ 借到了", idx+1)
				} else {
					failCount++
					t.Logf("  [借阅人%02d] ✗ 没借到: %s", idx+1, resp.Message)
				}
				mu.Unlock()
			}(i, token)
		}
		wg.Wait()

		assert.Equal(t, 1, successCount, "只应有1人借到最后一本")
		assert.Equal(t, 9, failCount, "其余9人应收到图书不可借")

		// 借出后图书应为loaned且库存为0
		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		require.Equal(t, 0, bookResp.Code)
		var bookData BookData
		require.NoError(t, json.Unmarshal(bookResp.Data, &bookData))
		assert.Equal(t, 0, bookData.Stock)
		assert.Equal(t, "loaned", bookData.Status)
	})

	t.Run("多人借多本（5库存，10并发）", func(t *testing.T) {
		bookID := CreateTestBook(t, adminToken, "《热门图书》", 5)

		tokens := make([]string, 0, 10)
		for i := 1; i <= 10; i++ {
			_, token := RegisterTestUser(t, fmt.Sprintf("reader%d", i))
			tokens = append(tokens, token)
		}

		var (
			wg           sync.WaitGroup
			mu           sync.Mutex
			successCount int
		)

		for _, token := range tokens {
			wg.Add(1)
			go func(userToken string) {
				defer wg.Done()

				resp := PostJSON(t, BaseURL+"/loans", map[string]interface{}{"book_id": bookID}, userToken)

				mu.Lock()
				if resp.Code == 0 {
					successCount++
				}
				mu.Unlock()
			}(token)
		}
		wg.Wait()

		assert.Equal(t, 5, successCount, "成功借阅数应等于库存数")
	})
}

// TestLoanMarkLost 测试标记丢失
//
// 教学说明：
// 丢失的书不回库存，借阅状态变为lost后不能再归还
func TestLoanMarkLost(t *testing.T) {
	RequireServer(t)
	adminToken := AdminToken(t)
	_, token := RegisterTestUser(t, "lost_tester")

	bookID := CreateTestBook(t, adminToken, "《丢失测试图书》", 1)

	loanResp := PostJSON(t, BaseURL+"/loans", map[string]interface{}{"book_id": bookID}, token)
	require.Equal(t, 0, loanResp.Code, "借书失败: %s", loanResp.Message)

	var loanData LoanData
	require.NoError(t, json.Unmarshal(loanResp.Data, &loanData))

	t.Run("普通用户不能标记丢失", func(t *testing.T) {
		resp := PostJSON(t, fmt.Sprintf("%s/loans/%d/lost", BaseURL, loanData.LoanID), nil, token)
		assert.NotEqual(t, 0, resp.Code)
	})

	t.Run("管理员标记丢失后库存不恢复", func(t *testing.T) {
		resp := PostJSON(t, fmt.Sprintf("%s/loans/%d/lost", BaseURL, loanData.LoanID), nil, adminToken)
		require.Equal(t, 0, resp.Code, "标记丢失失败: %s", resp.Message)

		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		require.Equal(t, 0, bookResp.Code)
		var bookData BookData
		require.NoError(t, json.Unmarshal(bookResp.Data, &bookData))
		assert.Equal(t, 0, bookData.Stock, "丢失的书不回库存")
		assert.Equal(t, "lost", bookData.Status, "图书状态同步置为lost")
	})

	t.Run("丢失后不能归还", func(t *testing.T) {
		resp := PostJSON(t, fmt.Sprintf("%s/loans/%d/return", BaseURL, loanData.LoanID), nil, token)
		assert.NotEqual(t, 0, resp.Code, "丢失的借阅不能归还")
	})
}
