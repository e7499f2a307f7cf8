// Package availabilityservice HTTP-клиент сервиса аренды для клиентской стороны.
// Отказ сервиса (422) возвращается как *rentalcalc.ValidationError,
// любой другой сбой как rentalcalc.ErrAvailabilityUnknown, а не как "занято".
package availabilityservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// Client клиент эндпоинтов доступности и правил
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента. timeout ограничивает каждый запрос.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get запрашивает доступность quantity единиц товара на окно
func (c *Client) Get(ctx context.Context, itemID int64, window rentalcalc.BookingWindow, quantity int) (*AvailabilityResponse, error) {
	query := url.Values{}
	query.Set("startDate", window.StartDate.Format(rentalcalc.DateFormat))
	query.Set("endDate", window.EndDate.Format(rentalcalc.DateFormat))
	query.Set("quantity", strconv.Itoa(quantity))

	endpoint := fmt.Sprintf("%s/api/v1/items/%d/availability?%s", c.baseURL, itemID, query.Encode())

	var result AvailabilityResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRules запрашивает действующие правила аренды товара.
// categoryID может быть nil, тогда сервис учитывает только правила товара и глобальные.
func (c *Client) GetRules(ctx context.Context, itemID int64, categoryID *int64) (*RulesResponse, error) {
	endpoint := fmt.Sprintf("%s/api/v1/items/%d/rules", c.baseURL, itemID)
	if categoryID != nil {
		endpoint += "?categoryId=" + strconv.FormatInt(*categoryID, 10)
	}

	var result RulesResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Check реализует bookingflow.AvailabilityChecker
func (c *Client) Check(ctx context.Context, itemID int64, window rentalcalc.BookingWindow, quantity int) (bool, error) {
	result, err := c.Get(ctx, itemID, window, quantity)
	if err != nil {
		if rentalcalc.IsValidationError(err) {
			return false, err
		}
		return false, errors.Join(rentalcalc.ErrAvailabilityUnknown, err)
	}
	return result.Available, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %w", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return decodeRejection(resp.Body)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

// decodeRejection восстанавливает ошибку валидации из ответа 422
func decodeRejection(body io.Reader) error {
	var e errorResponse
	if err := json.NewDecoder(body).Decode(&e); err != nil {
		return fmt.Errorf("%w: failed to decode rejection: %v", ErrInvalidResponse, err)
	}

	kind, ok := rentalcalc.KindForReason(e.Reason)
	if !ok {
		kind = fmt.Errorf("%w: %s", ErrRejected, e.Message)
	}
	return &rentalcalc.ValidationError{Kind: kind, Field: e.Field}
}
