package reservationapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sudhanshukawade1/Hotel-management/internal/config"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/payment"
	"github.com/sudhanshukawade1/Hotel-management/internal/pkg/metrics"
)

// Client は予約サービスのHTTPクライアント
// 同期・ブロッキング呼び出しでリトライは行わない。一時的な障害は呼び出し元の失敗になる
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// NewClient は新しいClientを作成する。m はnil可
func NewClient(cfg *config.ReservationAPIConfig, m *metrics.Metrics) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		metrics: m,
	}
}

// detailsResponse は予約詳細のワイヤー形式
// price が唯一の金額フィールド。欠落は生産者側の契約違反として扱う
type detailsResponse struct {
	GuestName  string   `json:"guestName"`
	RoomNumber string   `json:"roomNumber"`
	Price      *float64 `json:"price"`
}

// GetDetails は予約IDから予約詳細を取得する
func (c *Client) GetDetails(ctx context.Context, reservationID int64, identity payment.Identity) (*payment.ReservationDetails, error) {
	url := fmt.Sprintf("%s/reservation/details/%d", c.baseURL, reservationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: リクエスト作成エラー: %v", payment.ErrVerificationFailed, err)
	}
	req.Header.Set("Authorization", identity.Authorization)
	req.Header.Set("X-User-Role", identity.Role)
	req.Header.Set("X-User-Email", identity.Email)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observeLookup("error", start)
		return nil, fmt.Errorf("%w: %v", payment.ErrVerificationFailed, err)
	}
	c.observeLookup("success", start)
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, payment.ErrReservationNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: 予約サービスがステータス %d を返しました", payment.ErrVerificationFailed, resp.StatusCode)
	}

	var body detailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: レスポンス解析エラー: %v", payment.ErrVerificationFailed, err)
	}
	if body.Price == nil {
		return nil, fmt.Errorf("%w: price フィールドがありません", payment.ErrVerificationFailed)
	}
	if body.GuestName == "" {
		return nil, fmt.Errorf("%w: guestName フィールドがありません", payment.ErrVerificationFailed)
	}

	return &payment.ReservationDetails{
		GuestName:  body.GuestName,
		RoomNumber: body.RoomNumber,
		Price:      *body.Price,
	}, nil
}

// observeLookup はリモートルックアップの所要時間を記録する
func (c *Client) observeLookup(status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ReservationLookupDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}

var _ payment.ReservationVerifier = (*Client)(nil)
