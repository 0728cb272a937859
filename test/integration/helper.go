package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析）封装成可复用的函数
//
// 运行前提：
// 1. 服务已在localhost:8080启动（未启动时测试自动跳过）
// 2. 管理员相关用例需要设置环境变量 TEST_ADMIN_TOKEN
//    （用已有管理员账号登录后取access_token）

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// PingURL 健康检查URL
	PingURL = "http://localhost:8080/ping"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Field   string          `json:"field,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// BookData 图书响应数据
type BookData struct {
	ID          uint   `json:"id"`
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
	AuthorID    uint   `json:"author_id"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Status      string `json:"status"`
	Active      bool   `json:"active"`
	Description string `json:"description"`
}

// BookListData 图书列表响应数据
type BookListData struct {
	List       []BookData `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// AuthorData 作者响应数据
type AuthorData struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// CategoryData 分类响应数据
type CategoryData struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// LoanData 借阅响应数据
type LoanData struct {
	LoanID   uint   `json:"loan_id"`
	BookID   uint   `json:"book_id"`
	UserID   uint   `json:"user_id"`
	LoanedAt string `json:"loaned_at"`
	DueAt    string `json:"due_at"`
	Status   string `json:"status"`
}

// ReturnData 归还响应数据
type ReturnData struct {
	LoanID     uint   `json:"loan_id"`
	BookID     uint   `json:"book_id"`
	ReturnedAt string `json:"returned_at"`
	WasOverdue bool   `json:"was_overdue"`
}

// LoanListData 借阅列表响应数据
type LoanListData struct {
	List []struct {
		ID        uint   `json:"id"`
		BookID    uint   `json:"book_id"`
		Status    string `json:"status"`
		IsOverdue bool   `json:"is_overdue"`
	} `json:"list"`
	Total int64 `json:"total"`
}

// RequireServer 检查服务是否在运行，未运行时跳过测试
// 集成测试依赖已启动的服务，不应在CI的单元测试阶段失败
func RequireServer(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(PingURL)
	if err != nil {
		t.Skipf("服务未启动(%v)，跳过集成测试", err)
	}
	resp.Body.Close()
}

// AdminToken 获取管理员Token，未配置时跳过测试
// 管理员账号不能通过注册接口创建（is_admin需在数据库中设置），
// 所以由环境变量注入
func AdminToken(t *testing.T) string {
	t.Helper()
	token := os.Getenv("TEST_ADMIN_TOKEN")
	if token == "" {
		t.Skip("未设置TEST_ADMIN_TOKEN，跳过需要管理员权限的测试")
	}
	return token
}

// doJSON 发送带JSON body的请求并解析响应
func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(respBody, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(respBody))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
//
// 教学说明：
// - 使用*testing.T参数，可以在失败时立即终止测试
// - 使用require包进行断言，失败会立即停止（不继续执行）
// - 返回*Response而非error，简化调用方代码
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, "POST", url, data, token)
}

// PutJSON 发送PUT请求并解析JSON响应
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, "PUT", url, data, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, "DELETE", url, nil, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, "GET", url, nil, token)
}

// GenerateTestEmail 生成唯一的测试邮箱
//
// 教学说明：
// 使用时间戳确保邮箱唯一性，避免测试重复运行时邮箱冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// GenerateTestISBN 生成唯一的测试ISBN
//
// 教学说明：
// ISBN-13格式：978 + 10位数字
// 使用时间戳的后10位确保唯一性
func GenerateTestISBN() string {
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("978%010d", timestamp%10000000000)
}

// RegisterTestUser 注册测试用户并返回Token
//
// 教学说明：
// 这是一个"高阶"辅助函数，封装了注册+登录的完整流程
// 简化了测试代码，让测试更关注业务逻辑而非基础设施
func RegisterTestUser(t *testing.T, nickname string) (email string, token string) {
	email = GenerateTestEmail(nickname)
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"nickname": nickname,
	}

	registerResp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	loginReq := map[string]string{
		"email":    email,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return email, loginData.AccessToken
}

// CreateTestAuthor 创建测试作者并返回作者ID（需要管理员Token）
func CreateTestAuthor(t *testing.T, adminToken string, firstName, lastName string) uint {
	authorReq := map[string]string{
		"first_name":  firstName,
		"last_name":   lastName,
		"country": "测试国别",
	}

	resp := PostJSON(t, BaseURL+"/authors", authorReq, adminToken)
	require.Equal(t, 0, resp.Code, "创建作者失败: %s", resp.Message)

	var authorData AuthorData
	err := json.Unmarshal(resp.Data, &authorData)
	require.NoError(t, err, "解析作者响应失败")

	return authorData.ID
}

// CreateTestBook 登记测试图书并返回图书ID（需要管理员Token）
//
// 教学说明：
// 封装了作者创建+图书登记的完整流程，返回bookID供后续测试使用
func CreateTestBook(t *testing.T, adminToken string, title string, stock int) uint {
	authorID := CreateTestAuthor(t, adminToken, "测试", fmt.Sprintf("作者%d", time.Now().UnixNano()%100000))

	bookReq := map[string]interface{}{
		"isbn":        GenerateTestISBN(),
		"title":       title,
		"author_id":   authorID,
		"publisher":   "测试出版社",
		"price":       8900, // 89.00元
		"stock":       stock,
		"description": "集成测试用图书",
	}

	resp := PostJSON(t, BaseURL+"/books", bookReq, adminToken)
	require.Equal(t, 0, resp.Code, "图书登记失败: %s", resp.Message)

	var bookData BookData
	err := json.Unmarshal(resp.Data, &bookData)
	require.NoError(t, err, "解析图书响应失败")

	return bookData.ID
}
