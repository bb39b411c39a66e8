package reservation

import "time"

// Status は予約の状態を表す
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ActiveStatuses は空室判定をブロックする状態（保留中・確定済み）を返す
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}

// DateLayout は宿泊日のフォーマット（ISO 8601 カレンダー日付）
const DateLayout = "2006-01-02"

// Reservation は宿泊予約エンティティを表す
// 滞在期間は半開区間 [CheckIn, CheckOut) として扱う
type Reservation struct {
	ID         string
	GuestID    string
	PropertyID string
	CheckIn    time.Time
	CheckOut   time.Time
	TotalPrice int64 // 通貨最小単位（セント）
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewReservation は保留中状態の新しい予約を作成する
func NewReservation(guestID, propertyID string, checkIn, checkOut time.Time, totalPrice int64) *Reservation {
	now := time.Now()
	return &Reservation{
		GuestID:    guestID,
		PropertyID: propertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalPrice: totalPrice,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ParseDate はカレンダー日付文字列（YYYY-MM-DD）をUTC深夜0時としてパースする
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return d, nil
}

// Today は今日のカレンダー日付（UTC深夜0時）を返す
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateDates は宿泊期間の検証を行う
func ValidateDates(checkIn, checkOut, today time.Time) error {
	if !checkOut.After(checkIn) {
		return ErrCheckOutNotAfterCheckIn
	}
	if checkIn.Before(today) {
		return ErrCheckInInPast
	}
	if NightsBetween(checkIn, checkOut) < 1 {
		return ErrStayTooShort
	}
	return nil
}

// NightsBetween は2つのカレンダー日付の間の宿泊数を返す
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// Nights は宿泊数を返す
func (r *Reservation) Nights() int {
	return NightsBetween(r.CheckIn, r.CheckOut)
}

// IsActive は予約が空室判定をブロックする状態かを返す
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// Overlaps は候補期間と滞在期間が重なるかを半開区間の規則で判定する
// [a,b) と [c,d) は a < d かつ c < b のとき重なる
func (r *Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return r.CheckIn.Before(checkOut) && checkIn.Before(r.CheckOut)
}

// Confirm は保留中の予約を確定する
func (r *Reservation) Confirm() error {
	if r.Status != StatusPending {
		return ErrReservationNotPending
	}
	r.Status = StatusConfirmed
	r.UpdatedAt = time.Now()
	return nil
}

// Cancel は予約をキャンセルする
// チェックイン前日が今日以前の場合はキャンセル期限超過として拒否する
// （チェックインの24時間＝丸1日以上前のみキャンセル可能）
func (r *Reservation) Cancel(today time.Time) error {
	if r.Status == StatusCancelled {
		return ErrReservationAlreadyCancelled
	}
	if r.Status == StatusCompleted {
		return ErrReservationCompleted
	}
	if !r.CheckIn.AddDate(0, 0, -1).After(today) {
		return ErrCancellationTooLate
	}
	r.Status = StatusCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// Complete はチェックアウト日を過ぎた確定済み予約を完了にする
// 外部のスケジューラー（ワーカー）からのみ呼ばれる
func (r *Reservation) Complete(today time.Time) error {
	if r.Status != StatusConfirmed {
		return ErrReservationNotConfirmed
	}
	if r.CheckOut.After(today) {
		return ErrStayNotFinished
	}
	r.Status = StatusCompleted
	r.UpdatedAt = time.Now()
	return nil
}

// Validate は予約の必須項目を検証する
func (r *Reservation) Validate() error {
	if r.GuestID == "" {
		return ErrGuestIDRequired
	}
	if r.PropertyID == "" {
		return ErrPropertyIDRequired
	}
	if r.CheckIn.IsZero() {
		return ErrCheckInRequired
	}
	if r.CheckOut.IsZero() {
		return ErrCheckOutRequired
	}
	if r.TotalPrice < 0 {
		return ErrNegativePrice
	}
	return nil
}
