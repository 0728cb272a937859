package book

import (
	"fmt"
	"time"

	"github.com/xiebiao/biblioteca/internal/domain/book"
)

// BookDetail 图书详情DTO(登记/查询/更新共用)
type BookDetail struct {
	ID          uint    `json:"id"`
	ISBN        string  `json:"isbn"`
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle,omitempty"`
	AuthorID    uint    `json:"author_id"`
	Author      string  `json:"author,omitempty"`
	CategoryID  *uint   `json:"category_id,omitempty"`
	Publisher   string  `json:"publisher"`
	PublishedAt string  `json:"published_at,omitempty"`
	PageCount   int     `json:"page_count"`
	Language    string  `json:"language"`
	Price       int64   `json:"price"` // 价格(分)
	PriceYuan   string  `json:"price_yuan"`
	Rating      float64 `json:"rating"`
	Stock       int     `json:"stock"`
	Status      string  `json:"status"`
	Active      bool    `json:"active"`
	CreatedBy   *uint   `json:"created_by,omitempty"`
	CoverURL    string  `json:"cover_url"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// toBookDetail 领域实体 → 详情DTO
func toBookDetail(b *book.Book, authorName string) *BookDetail {
	d := &BookDetail{
		ID:          b.ID,
		ISBN:        b.ISBN,
		Title:       b.Title,
		Subtitle:    b.Subtitle,
		AuthorID:    b.AuthorID,
		Author:      authorName,
		CategoryID:  b.CategoryID,
		Publisher:   b.Publisher,
		PageCount:   b.PageCount,
		Language:    b.Language,
		Price:       b.Price,
		PriceYuan:   formatPrice(b.Price),
		Rating:      b.Rating,
		Stock:       b.Stock,
		Status:      string(b.Status),
		Active:      b.Active,
		CreatedBy:   b.CreatedBy,
		CoverURL:    b.CoverURL,
		Description: b.Description,
		CreatedAt:   b.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   b.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if b.PublishedAt != nil {
		d.PublishedAt = b.PublishedAt.Format("2006-01-02")
	}
	return d
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}

// parseDate 解析日期字符串(空串返回nil)
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
