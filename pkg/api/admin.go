package api

// AdminStatsResponse представляет сводную статистику для админ-панели
type AdminStatsResponse struct {
	Users           int64 `json:"users"`
	Chats           int64 `json:"chats"`
	Messages        int64 `json:"messages"`
	PendingPayments int64 `json:"pending_payments"`
}

// UpdateUserRequest представляет PATCH-запрос изменения пользователя.
// Пока поддерживается только блокировка.
type UpdateUserRequest struct {
	IsBlocked *bool `json:"is_blocked,omitempty"`
}

// AddTokensResponse представляет результат начисления токенов администратором
type AddTokensResponse struct {
	NewBalance int64 `json:"new_balance"`
}
