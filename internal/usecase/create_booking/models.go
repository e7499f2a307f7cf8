package create_booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID    int64     // ID пользователя
	OrderID   string    // ID заказа в сервисе заказов
	ItemID    int64     // ID товара
	StartDate time.Time // Дата выдачи
	EndDate   time.Time // Дата возврата
	Quantity  int       // Количество экземпляров
	Notes     *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID        int64     // ID созданного бронирования
	OrderID   string    // ID заказа
	UserID    int64     // ID пользователя
	ItemID    int64     // ID товара
	StartDate time.Time // Дата выдачи
	EndDate   time.Time // Дата возврата
	Quantity  int       // Количество экземпляров
	Status    string    // Статус бронирования

	// Денормализованные данные
	ItemName   string          // Название товара
	RentalDays int             // Дней аренды
	DailyRate  decimal.Decimal // Цена за день
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Deposit    decimal.Decimal // Возвратный залог
	Total      decimal.Decimal // Subtotal + Tax
	Notes      *string         // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
