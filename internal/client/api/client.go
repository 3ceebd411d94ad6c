package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Sladkolapy/Mishka/pkg/api"
)

//go:generate moq -out tokensource_mock.go . TokenSource

// TokenSource выдает текущий bearer-токен из хранилища сессии.
// Возвращает storage.ErrTokenNotFound, если пользователь не авторизован.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client представляет HTTP клиент для взаимодействия с сервером.
// Все защищенные запросы несут заголовок Authorization: Bearer <token>,
// публичные (register, login, legal, pricing, payment info) без него.
type Client struct {
	httpClient *http.Client
	tokens     TokenSource
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// ---- Auth (публичные) ----

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", req, &resp, false); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", req, &resp, false); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Legal получает юридический документ по типу (terms, privacy, offer)
func (c *Client) Legal(ctx context.Context, docType string) (*api.LegalResponse, error) {
	var resp api.LegalResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/legal/"+docType, nil, &resp, false); err != nil {
		return nil, fmt.Errorf("legal request failed: %w", err)
	}
	return &resp, nil
}

// Pricing получает таблицу стоимости действий
func (c *Client) Pricing(ctx context.Context) (*api.PricingResponse, error) {
	var resp api.PricingResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/pricing", nil, &resp, false); err != nil {
		return nil, fmt.Errorf("pricing request failed: %w", err)
	}
	return &resp, nil
}

// PaymentInfo получает реквизиты для перевода по СБП
func (c *Client) PaymentInfo(ctx context.Context) (*api.PaymentInfoResponse, error) {
	var resp api.PaymentInfoResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/payment/info", nil, &resp, false); err != nil {
		return nil, fmt.Errorf("payment info request failed: %w", err)
	}
	return &resp, nil
}

// ---- Auth (защищенные) ----

// Me получает профиль текущего пользователя по сохраненному токену
func (c *Client) Me(ctx context.Context) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/auth/me", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &resp, nil
}

// ---- Chats ----

// CreateChat создает новый чат
func (c *Client) CreateChat(ctx context.Context, req api.ChatCreateRequest) (*api.ChatResponse, error) {
	var resp api.ChatResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/chat/create", req, &resp, true); err != nil {
		return nil, fmt.Errorf("create chat request failed: %w", err)
	}
	return &resp, nil
}

// ListChats получает список чатов пользователя
func (c *Client) ListChats(ctx context.Context) ([]api.ChatResponse, error) {
	var resp []api.ChatResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/chat/list", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("list chats request failed: %w", err)
	}
	return resp, nil
}

// GetChat получает чат с сообщениями и файлами
func (c *Client) GetChat(ctx context.Context, chatID string) (*api.ChatDetailResponse, error) {
	var resp api.ChatDetailResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/chat/"+chatID, nil, &resp, true); err != nil {
		return nil, fmt.Errorf("get chat request failed: %w", err)
	}
	return &resp, nil
}

// DeleteChat удаляет чат вместе с сообщениями и файлами
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/chat/"+chatID, nil, nil, true); err != nil {
		return fmt.Errorf("delete chat request failed: %w", err)
	}
	return nil
}

// SendMessage отправляет сообщение и возвращает ответ ассистента
func (c *Client) SendMessage(ctx context.Context, chatID string, req api.MessageCreateRequest) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/chat/"+chatID+"/message", req, &resp, true); err != nil {
		return nil, fmt.Errorf("send message request failed: %w", err)
	}
	return &resp, nil
}

// UploadFile загружает файл в чат (multipart/form-data, поле "file")
func (c *Client) UploadFile(ctx context.Context, chatID, filename string, content io.Reader) (*api.UploadResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to write file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := c.baseURL + "/api/chat/" + chatID + "/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, normalizeError(httpResp.StatusCode, respBody)
	}

	var resp api.UploadResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

// DownloadFile скачивает файл. Возвращает поток содержимого и имя файла
// из Content-Disposition; закрыть поток должен вызывающий.
func (c *Client) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, string, error) {
	url := c.baseURL + "/api/files/" + fileID + "/download"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.authorize(ctx, req); err != nil {
		return nil, "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() {
			_ = resp.Body.Close()
		}()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, "", normalizeError(resp.StatusCode, respBody)
	}

	filename := ""
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			filename = params["filename"]
		}
	}

	return resp.Body, filename, nil
}

// ---- Balance / payments ----

// BalanceHistory получает историю операций по балансу
func (c *Client) BalanceHistory(ctx context.Context) ([]api.TransactionResponse, error) {
	var resp []api.TransactionResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/balance/history", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("balance history request failed: %w", err)
	}
	return resp, nil
}

// TopUp выполняет прямое пополнение баланса
func (c *Client) TopUp(ctx context.Context, req api.TopUpRequest) (*api.TopUpResponse, error) {
	var resp api.TopUpResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/balance/topup", req, &resp, true); err != nil {
		return nil, fmt.Errorf("topup request failed: %w", err)
	}
	return &resp, nil
}

// CreatePaymentRequest создает заявку на пополнение через СБП
func (c *Client) CreatePaymentRequest(ctx context.Context, req api.PaymentRequestCreate) (*api.PaymentRequestResponse, error) {
	var resp api.PaymentRequestResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/payment/request", req, &resp, true); err != nil {
		return nil, fmt.Errorf("payment request failed: %w", err)
	}
	return &resp, nil
}

// MyPaymentRequests получает заявки текущего пользователя
func (c *Client) MyPaymentRequests(ctx context.Context) ([]api.PaymentRequestResponse, error) {
	var resp []api.PaymentRequestResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/payment/my-requests", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("my payment requests failed: %w", err)
	}
	return resp, nil
}

// ---- Admin ----

// AdminStats получает сводную статистику
func (c *Client) AdminStats(ctx context.Context) (*api.AdminStatsResponse, error) {
	var resp api.AdminStatsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/admin/stats", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("admin stats request failed: %w", err)
	}
	return &resp, nil
}

// AdminUsers получает список пользователей
func (c *Client) AdminUsers(ctx context.Context) ([]api.UserResponse, error) {
	var resp []api.UserResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/admin/users", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("admin users request failed: %w", err)
	}
	return resp, nil
}

// AdminPayments получает заявки на пополнение, ожидающие решения
func (c *Client) AdminPayments(ctx context.Context) ([]api.PaymentRequestResponse, error) {
	var resp []api.PaymentRequestResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/admin/payments", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("admin payments request failed: %w", err)
	}
	return resp, nil
}

// AdminSetBlocked блокирует или разблокирует пользователя
func (c *Client) AdminSetBlocked(ctx context.Context, userID string, blocked bool) (*api.UserResponse, error) {
	var resp api.UserResponse
	req := api.UpdateUserRequest{IsBlocked: &blocked}
	if err := c.doRequest(ctx, http.MethodPatch, "/api/admin/users/"+userID, req, &resp, true); err != nil {
		return nil, fmt.Errorf("update user request failed: %w", err)
	}
	return &resp, nil
}

// AdminAddTokens начисляет пользователю токены.
// Сумма передается query-параметром, как в оригинальном контракте.
func (c *Client) AdminAddTokens(ctx context.Context, userID string, amount int64) (*api.AddTokensResponse, error) {
	var resp api.AddTokensResponse
	path := fmt.Sprintf("/api/admin/users/%s/add-tokens?amount=%d", userID, amount)
	if err := c.doRequest(ctx, http.MethodPost, path, nil, &resp, true); err != nil {
		return nil, fmt.Errorf("add tokens request failed: %w", err)
	}
	return &resp, nil
}

// AdminApprovePayment подтверждает заявку на пополнение
func (c *Client) AdminApprovePayment(ctx context.Context, requestID string) (*api.PaymentRequestResponse, error) {
	var resp api.PaymentRequestResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/admin/payments/"+requestID+"/approve", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("approve payment request failed: %w", err)
	}
	return &resp, nil
}

// AdminRejectPayment отклоняет заявку на пополнение
func (c *Client) AdminRejectPayment(ctx context.Context, requestID string) (*api.PaymentRequestResponse, error) {
	var resp api.PaymentRequestResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/admin/payments/"+requestID+"/reject", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("reject payment request failed: %w", err)
	}
	return &resp, nil
}

// authorize читает токен из хранилища сессии и проставляет заголовок
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("no session token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}, authed bool) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		if err := c.authorize(ctx, req); err != nil {
			return err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return normalizeError(resp.StatusCode, respBody)
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// normalizeError приводит тело ошибки к *APIError.
// Читает стандартное поле detail, иначе подставляет общее сообщение.
func normalizeError(status int, body []byte) error {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
		return &APIError{Status: status, Detail: errResp.Detail}
	}
	return &APIError{Status: status, Detail: "Something went wrong"}
}
