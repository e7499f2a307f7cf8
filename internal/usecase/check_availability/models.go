package check_availability

import "time"

// Request модель запроса на проверку доступности
type Request struct {
	ItemID    int64     // ID товара
	StartDate time.Time // Дата выдачи
	EndDate   time.Time // Дата возврата
	Quantity  int       // Количество экземпляров
}

// Response модель ответа о доступности
type Response struct {
	ItemID     int64
	StartDate  time.Time
	EndDate    time.Time
	Quantity   int
	Available  bool
	FreeUnits  int // Свободно экземпляров на весь период
	TotalUnits int // Всего экземпляров товара
}
