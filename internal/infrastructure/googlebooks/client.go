package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/xiebiao/biblioteca/internal/infrastructure/config"
	"github.com/xiebiao/biblioteca/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/biblioteca/pkg/errors"
	"github.com/xiebiao/biblioteca/pkg/metrics"
)

// BookMetadata 外部服务返回的图书元数据
// 字段与应用层导入用例对接,不直接暴露Google Books的响应结构
type BookMetadata struct {
	ISBN        string
	Title       string
	Subtitle    string
	Authors     []string
	Publisher   string
	PublishedAt *time.Time
	PageCount   int
	Language    string
	Description string
	CoverURL    string
	Rating      float64
}

// ErrVolumeNotFound ISBN在外部服务中不存在
var ErrVolumeNotFound = apperrors.New(apperrors.ErrCodeNotFound, "未找到该ISBN对应的图书")

// Client Google Books API客户端
// 设计说明:
// 1. 外部HTTP依赖用熔断器包裹,服务故障时快速失败,不拖垮借阅主流程
// 2. 超时由http.Client.Timeout控制(默认10秒)
// 3. 只实现volumes?q=isbn:xxx查询,够导入用例使用
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient 创建Google Books客户端
func NewClient(cfg *config.Config) *Client {
	breaker := circuitbreaker.NewCircuitBreaker("google-books", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			// 连续5次失败后熔断
			return counts.ConsecutiveFailures >= 5
		},
	})

	// 状态变化同步到Prometheus(0=CLOSED, 1=OPEN, 2=HALF_OPEN)
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})

	return &Client{
		baseURL: cfg.GoogleBooks.BaseURL,
		apiKey:  cfg.GoogleBooks.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.GoogleBooks.Timeout,
		},
		breaker: breaker,
	}
}

// FetchByISBN 根据ISBN查询图书元数据
// 熔断器打开时直接返回ErrExternalService,不发起HTTP请求
func (c *Client) FetchByISBN(ctx context.Context, isbn string) (*BookMetadata, error) {
	var meta *BookMetadata
	err := c.breaker.Execute(func() error {
		var ferr error
		meta, ferr = c.fetchVolume(ctx, isbn)
		// ISBN不存在是正常业务结果,不计入熔断失败
		if ferr == ErrVolumeNotFound {
			return nil
		}
		return ferr
	})

	if err != nil {
		// 熔断器打开 → 服务降级错误
		if err == circuitbreaker.ErrOpenState {
			metrics.IncCounterVec(metrics.ImportRequestsTotal, map[string]string{"result": "rejected"})
			return nil, apperrors.ErrExternalService
		}
		return nil, err
	}

	if meta == nil {
		return nil, ErrVolumeNotFound
	}

	return meta, nil
}

// fetchVolume 执行实际的HTTP查询
func (c *Client) fetchVolume(ctx context.Context, isbn string) (*BookMetadata, error) {
	// 构建查询URL: {base}/volumes?q=isbn:{isbn}
	q := url.Values{}
	q.Set("q", "isbn:"+isbn)
	q.Set("maxResults", "1")
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	reqURL := fmt.Sprintf("%s/volumes?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "构建元数据请求失败")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncCounterVec(metrics.ImportRequestsTotal, map[string]string{"result": "failure"})
		return nil, apperrors.Wrap(err, "请求图书元数据服务失败")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.IncCounterVec(metrics.ImportRequestsTotal, map[string]string{"result": "failure"})
		return nil, apperrors.Wrapf(fmt.Errorf("status %d", resp.StatusCode), "图书元数据服务异常")
	}

	var body volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.IncCounterVec(metrics.ImportRequestsTotal, map[string]string{"result": "failure"})
		return nil, apperrors.Wrap(err, "解析元数据响应失败")
	}

	// 未命中:totalItems为0
	if body.TotalItems == 0 || len(body.Items) == 0 {
		metrics.IncCounterVec(metrics.ImportRequestsTotal, map[string]string{"result": "not_found"})
		return nil, ErrVolumeNotFound
	}

	metrics.IncCounterVec(metrics.ImportRequestsTotal, map[string]string{"result": "success"})
	return toMetadata(isbn, &body.Items[0].VolumeInfo), nil
}

// volumesResponse Google Books volumes查询响应
type volumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo volumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	PageCount           int      `json:"pageCount"`
	Language            string   `json:"language"`
	AverageRating       float64  `json:"averageRating"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		Thumbnail      string `json:"thumbnail"`
		SmallThumbnail string `json:"smallThumbnail"`
	} `json:"imageLinks"`
}

// toMetadata 响应结构 → 元数据
func toMetadata(isbn string, v *volumeInfo) *BookMetadata {
	m := &BookMetadata{
		ISBN:        isbn,
		Title:       v.Title,
		Subtitle:    v.Subtitle,
		Authors:     v.Authors,
		Publisher:   v.Publisher,
		PageCount:   v.PageCount,
		Language:    v.Language,
		Description: v.Description,
		Rating:      v.AverageRating,
	}

	// 优先使用ISBN_13标识(查询串可能是ISBN_10)
	for _, ident := range v.IndustryIdentifiers {
		if ident.Type == "ISBN_13" {
			m.ISBN = ident.Identifier
			break
		}
	}

	// 出版日期格式不统一:可能是2006、2006-01或2006-01-02
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, v.PublishedDate); err == nil {
			m.PublishedAt = &t
			break
		}
	}

	if v.ImageLinks.Thumbnail != "" {
		m.CoverURL = v.ImageLinks.Thumbnail
	} else {
		m.CoverURL = v.ImageLinks.SmallThumbnail
	}

	return m
}
