package session

// Decision представляет решение route guard для текущего состояния сессии
type Decision int

const (
	// DecisionLoading: показать заглушку загрузки; редиректить нельзя,
	// иначе авторизованный пользователь отскочит на вход во время
	// первоначальной проверки
	DecisionLoading Decision = iota

	// DecisionAllow: отрисовать защищенное представление
	DecisionAllow

	// DecisionRedirectLogin: увести на экран входа
	DecisionRedirectLogin

	// DecisionRedirectHome: увести на главную (авторизованный на экране
	// входа или не-админ на админском экране)
	DecisionRedirectHome
)

// Protected решает судьбу защищенного представления.
// Пока loading=true показываем только заглушку, независимо от токена.
func Protected(st State) Decision {
	if st.Loading {
		return DecisionLoading
	}
	if st.Token == "" {
		return DecisionRedirectLogin
	}
	return DecisionAllow
}

// Public выполняет обратную проверку для экрана входа: уже авторизованного
// пользователя уводим, а не показываем форму.
func Public(st State) Decision {
	if st.Loading {
		return DecisionLoading
	}
	if st.Token != "" {
		return DecisionRedirectHome
	}
	return DecisionAllow
}

// AdminOnly дополнительно требует is_admin.
func AdminOnly(st State) Decision {
	if d := Protected(st); d != DecisionAllow {
		return d
	}
	if st.User == nil || !st.User.IsAdmin {
		return DecisionRedirectHome
	}
	return DecisionAllow
}
