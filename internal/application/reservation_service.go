package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-stay-booking/internal/domain/property"
	"github.com/sanosuguru/go-stay-booking/internal/domain/reservation"
	"github.com/sanosuguru/go-stay-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-stay-booking/internal/domain/user"
	redisinfra "github.com/sanosuguru/go-stay-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-stay-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-stay-booking/internal/pkg/metrics"
)

// 予約作成時の分散ロック設定
const (
	createLockTTL        = 10 * time.Second
	createLockMaxRetries = 3
	createLockRetryDelay = 100 * time.Millisecond

	availabilityCacheTTL = 5 * time.Minute
)

type ReservationService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	propertyRepo    property.Repository
	userRepo        user.Repository
	lockManager     *redisinfra.LockManager
	cache           *redisinfra.AvailabilityCache
	metrics         *metrics.Metrics
}

func NewReservationService(
	txManager transaction.Manager,
	rr reservation.Repository,
	pr property.Repository,
	ur user.Repository,
	lm *redisinfra.LockManager,
	cache *redisinfra.AvailabilityCache,
	m *metrics.Metrics,
) *ReservationService {
	return &ReservationService{
		txManager:       txManager,
		reservationRepo: rr,
		propertyRepo:    pr,
		userRepo:        ur,
		lockManager:     lm,
		cache:           cache,
		metrics:         m,
	}
}

// GuestSummary は予約レスポンスに含めるゲスト情報
type GuestSummary struct {
	ID    string
	Name  string
	Email string
}

// PropertySummary は予約レスポンスに含める物件情報
type PropertySummary struct {
	ID          string
	Title       string
	NightlyRate int64
}

// ReservationProjection は予約の読み取り用ビュー
// Status はエンティティの実際の状態をそのまま写す
type ReservationProjection struct {
	Reservation *reservation.Reservation
	Guest       GuestSummary
	Property    PropertySummary
}

type CreateReservationInput struct {
	GuestID    string
	PropertyID string
	CheckIn    string
	CheckOut   string
}

// CreateReservation は空室確認・料金計算・予約作成を行う
// 空室確認と INSERT はストレージの排他制約で単一の原子的操作になっており、
// 並行予約が重なった場合は片方が ErrBookingConflict で失敗する
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*ReservationProjection, error) {
	// 入力の存在チェック
	if input.GuestID == "" {
		return nil, reservation.ErrGuestIDRequired
	}
	if input.PropertyID == "" {
		return nil, reservation.ErrPropertyIDRequired
	}
	if input.CheckIn == "" {
		return nil, reservation.ErrCheckInRequired
	}
	if input.CheckOut == "" {
		return nil, reservation.ErrCheckOutRequired
	}

	// ゲスト・物件の解決
	guest, err := s.userRepo.GetByID(ctx, input.GuestID)
	if err != nil {
		return nil, err
	}
	prop, err := s.propertyRepo.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if !prop.IsBookable() {
		s.countBooking("rejected")
		return nil, property.ErrPropertyNotBookable
	}

	// 日付のパースと検証
	checkIn, err := reservation.ParseDate(input.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := reservation.ParseDate(input.CheckOut)
	if err != nil {
		return nil, err
	}
	today := reservation.Today()
	if err := reservation.ValidateDates(checkIn, checkOut, today); err != nil {
		s.countBooking("rejected")
		return nil, err
	}

	// 料金計算（1泊料金 × 泊数 + サービス手数料10%）
	res := reservation.NewReservation(
		guest.ID, prop.ID, checkIn, checkOut,
		reservation.TotalPrice(prop.NightlyRate, reservation.NightsBetween(checkIn, checkOut)),
	)
	if err := res.Validate(); err != nil {
		return nil, err
	}

	// 物件単位の分散ロックで作成処理を直列化する
	// ロックは競合を減らすための最適化で、二重予約の防止自体は
	// InsertIfAvailable の排他制約が保証する
	if s.lockManager != nil {
		lock, err := s.acquireCreateLock(ctx, prop.ID)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				s.countBooking("conflict")
				return nil, reservation.ErrBookingConflict
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer s.releaseCreateLock(lock)
	}

	// 事前の空室チェック（高速失敗用）
	available, err := s.reservationRepo.IsAvailable(ctx, prop.ID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if !available {
		s.countBooking("unavailable")
		return nil, reservation.ErrDatesNotAvailable
	}

	// 原子的な空室確認付きINSERT
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.InsertIfAvailable(ctx, tx, res); err != nil {
		if errors.Is(err, reservation.ErrDatesNotAvailable) {
			// 事前チェック通過後に並行予約へ先を越された
			s.countBooking("conflict")
			return nil, reservation.ErrBookingConflict
		}
		s.countBooking("error")
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.countBooking("created")
	s.adjustActiveGauge(reservation.StatusPending, +1)
	s.invalidateCache(ctx, prop.ID)

	logger.Info("予約を作成しました",
		zap.String("reservation_id", res.ID),
		zap.String("guest_id", guest.ID),
		zap.String("property_id", prop.ID),
		zap.Int64("total_price", res.TotalPrice),
	)

	return s.project(res, guest, prop), nil
}

// CancelReservation は予約をキャンセルする
// ゲスト本人のみ、かつチェックインの丸1日前までに限る
func (s *ReservationService) CancelReservation(ctx context.Context, reservationID, guestID string) (*ReservationProjection, error) {
	if reservationID == "" {
		return nil, reservation.ErrReservationNotFound
	}
	if guestID == "" {
		return nil, reservation.ErrGuestIDRequired
	}

	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.GuestID != guestID {
		return nil, reservation.ErrNotReservationGuest
	}

	prior := res.Status
	if err := res.Cancel(reservation.Today()); err != nil {
		s.countTransition("cancel", "rejected")
		return nil, err
	}

	if err := s.transitionStatus(ctx, res.ID, prior, reservation.StatusCancelled, res.UpdatedAt); err != nil {
		s.countTransition("cancel", "conflict")
		return nil, err
	}

	s.countTransition("cancel", "success")
	s.adjustActiveGauge(prior, -1)
	s.invalidateCache(ctx, res.PropertyID)

	logger.Info("予約をキャンセルしました",
		zap.String("reservation_id", res.ID),
		zap.String("guest_id", guestID),
	)

	return s.loadProjection(ctx, res)
}

// ConfirmReservation は保留中の予約を物件のオーナー（ホスト）が確定する
func (s *ReservationService) ConfirmReservation(ctx context.Context, reservationID, hostID string) (*ReservationProjection, error) {
	if reservationID == "" {
		return nil, reservation.ErrReservationNotFound
	}
	if hostID == "" {
		return nil, property.ErrOwnerIDRequired
	}

	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	prop, err := s.propertyRepo.GetByID(ctx, res.PropertyID)
	if err != nil {
		return nil, err
	}
	if !prop.IsOwnedBy(hostID) {
		return nil, property.ErrNotPropertyOwner
	}

	if err := res.Confirm(); err != nil {
		s.countTransition("confirm", "rejected")
		return nil, err
	}

	if err := s.transitionStatus(ctx, res.ID, reservation.StatusPending, reservation.StatusConfirmed, res.UpdatedAt); err != nil {
		s.countTransition("confirm", "conflict")
		return nil, err
	}

	s.countTransition("confirm", "success")
	s.adjustActiveGauge(reservation.StatusPending, -1)
	s.adjustActiveGauge(reservation.StatusConfirmed, +1)
	s.invalidateCache(ctx, res.PropertyID)

	logger.Info("予約を確定しました",
		zap.String("reservation_id", res.ID),
		zap.String("host_id", hostID),
	)

	guest, err := s.userRepo.GetByID(ctx, res.GuestID)
	if err != nil {
		return nil, err
	}
	return s.project(res, guest, prop), nil
}

// GetReservation はIDから予約を取得する
func (s *ReservationService) GetReservation(ctx context.Context, id string) (*ReservationProjection, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.loadProjection(ctx, res)
}

// ListByGuest はゲストの予約一覧をチェックイン日降順で取得する
func (s *ReservationService) ListByGuest(ctx context.Context, guestID string) ([]*ReservationProjection, error) {
	if guestID == "" {
		return nil, reservation.ErrGuestIDRequired
	}
	guest, err := s.userRepo.GetByID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	list, err := s.reservationRepo.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	result := make([]*ReservationProjection, len(list))
	for i, res := range list {
		prop, err := s.propertyRepo.GetByID(ctx, res.PropertyID)
		if err != nil {
			return nil, err
		}
		result[i] = s.project(res, guest, prop)
	}
	return result, nil
}

// ListByProperty は物件の予約一覧をチェックイン日降順で取得する
// 物件のオーナーのみ閲覧できる
func (s *ReservationService) ListByProperty(ctx context.Context, propertyID, hostID string) ([]*ReservationProjection, error) {
	if propertyID == "" {
		return nil, reservation.ErrPropertyIDRequired
	}
	if hostID == "" {
		return nil, property.ErrOwnerIDRequired
	}
	prop, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !prop.IsOwnedBy(hostID) {
		return nil, property.ErrNotPropertyOwner
	}
	list, err := s.reservationRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return s.projectAll(ctx, list, prop)
}

// ListActiveByProperty は空室判定をブロックする予約（保留中・確定済み）を取得する
func (s *ReservationService) ListActiveByProperty(ctx context.Context, propertyID string) ([]*ReservationProjection, error) {
	if propertyID == "" {
		return nil, reservation.ErrPropertyIDRequired
	}
	prop, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	list, err := s.reservationRepo.ListByPropertyAndStatuses(ctx, propertyID, reservation.ActiveStatuses())
	if err != nil {
		return nil, err
	}
	s.refreshCache(ctx, propertyID, list)
	return s.projectAll(ctx, list, prop)
}

// CheckAvailability は候補期間が予約可能かを返す（読み取り専用の事前照会）
// キャッシュヒット時はDBへ行かずに半開区間の重なり判定だけで答える
func (s *ReservationService) CheckAvailability(ctx context.Context, propertyID, checkInStr, checkOutStr string) (bool, error) {
	if propertyID == "" {
		return false, reservation.ErrPropertyIDRequired
	}
	checkIn, err := reservation.ParseDate(checkInStr)
	if err != nil {
		return false, err
	}
	checkOut, err := reservation.ParseDate(checkOutStr)
	if err != nil {
		return false, err
	}
	if !checkOut.After(checkIn) {
		return false, reservation.ErrCheckOutNotAfterCheckIn
	}

	if s.cache != nil {
		if ranges, cacheErr := s.cache.GetActiveRanges(ctx, propertyID); cacheErr == nil {
			available, ok := availableInCached(ranges, checkIn, checkOut)
			if ok {
				return available, nil
			}
			// 壊れたキャッシュはDBへフォールバック
		}
	}

	return s.reservationRepo.IsAvailable(ctx, propertyID, checkIn, checkOut)
}

// availableInCached はキャッシュ済みの予約期間に対して半開区間の重なり判定を行う
// キャッシュ項目がパースできない場合は ok=false を返し、DBで判定し直す
func availableInCached(ranges []redisinfra.BookedRange, checkIn, checkOut time.Time) (available, ok bool) {
	for _, br := range ranges {
		in, inErr := reservation.ParseDate(br.CheckIn)
		out, outErr := reservation.ParseDate(br.CheckOut)
		if inErr != nil || outErr != nil {
			return false, false
		}
		if in.Before(checkOut) && checkIn.Before(out) {
			return false, true
		}
	}
	return true, true
}

// CompleteElapsedStays はチェックアウト日を過ぎた確定済み予約を完了にする
// 滞在完了ワーカーからのみ呼ばれる
func (s *ReservationService) CompleteElapsedStays(ctx context.Context) (int, error) {
	count, err := s.reservationRepo.CompleteElapsed(ctx, reservation.Today())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.countTransition("complete", "success")
		s.adjustActiveGauge(reservation.StatusConfirmed, -count)
		logger.Info("滞在完了処理を実行しました", zap.Int("completed", count))
	}
	return count, nil
}

// transitionStatus は条件付き状態更新をトランザクション内で実行する
func (s *ReservationService) transitionStatus(ctx context.Context, id string, from, to reservation.Status, updatedAt time.Time) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.UpdateStatus(ctx, tx, id, from, to, updatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}

func (s *ReservationService) acquireCreateLock(ctx context.Context, propertyID string) (*redisinfra.DistributedLock, error) {
	start := time.Now()
	lock, err := s.lockManager.AcquireLockWithRetry(ctx, "property:"+propertyID, createLockTTL, createLockMaxRetries, createLockRetryDelay)
	if s.metrics != nil {
		status := "success"
		if err != nil {
			status = "failed"
		}
		s.metrics.DistributedLockDuration.WithLabelValues("acquire", status).Observe(time.Since(start).Seconds())
	}
	return lock, err
}

func (s *ReservationService) releaseCreateLock(lock *redisinfra.DistributedLock) {
	start := time.Now()
	// リクエストのコンテキストが既にキャンセルされていても解放は試みる
	err := lock.Release(context.Background())
	if s.metrics != nil {
		status := "success"
		if err != nil {
			status = "failed"
		}
		s.metrics.DistributedLockDuration.WithLabelValues("release", status).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		logger.Warn("ロック解放に失敗", zap.Error(err))
	}
}

func (s *ReservationService) invalidateCache(ctx context.Context, propertyID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, propertyID); err != nil {
		logger.Warn("空室キャッシュの無効化に失敗", zap.String("property_id", propertyID), zap.Error(err))
	}
}

func (s *ReservationService) refreshCache(ctx context.Context, propertyID string, list []*reservation.Reservation) {
	if s.cache == nil {
		return
	}
	ranges := make([]redisinfra.BookedRange, len(list))
	for i, res := range list {
		ranges[i] = redisinfra.BookedRange{
			CheckIn:  res.CheckIn.Format(reservation.DateLayout),
			CheckOut: res.CheckOut.Format(reservation.DateLayout),
			Status:   string(res.Status),
		}
	}
	if err := s.cache.SetActiveRanges(ctx, propertyID, ranges, availabilityCacheTTL); err != nil {
		logger.Warn("空室キャッシュの更新に失敗", zap.String("property_id", propertyID), zap.Error(err))
	}
}

func (s *ReservationService) countBooking(result string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(result).Inc()
	}
}

func (s *ReservationService) countTransition(transition, result string) {
	if s.metrics != nil {
		s.metrics.BookingTransitionsTotal.WithLabelValues(transition, result).Inc()
	}
}

func (s *ReservationService) adjustActiveGauge(status reservation.Status, delta int) {
	if s.metrics != nil {
		s.metrics.ActiveReservations.WithLabelValues(string(status)).Add(float64(delta))
	}
}

func (s *ReservationService) project(res *reservation.Reservation, guest *user.User, prop *property.Property) *ReservationProjection {
	return &ReservationProjection{
		Reservation: res,
		Guest:       GuestSummary{ID: guest.ID, Name: guest.Username, Email: guest.Email},
		Property:    PropertySummary{ID: prop.ID, Title: prop.Title, NightlyRate: prop.NightlyRate},
	}
}

func (s *ReservationService) loadProjection(ctx context.Context, res *reservation.Reservation) (*ReservationProjection, error) {
	guest, err := s.userRepo.GetByID(ctx, res.GuestID)
	if err != nil {
		return nil, err
	}
	prop, err := s.propertyRepo.GetByID(ctx, res.PropertyID)
	if err != nil {
		return nil, err
	}
	return s.project(res, guest, prop), nil
}

func (s *ReservationService) projectAll(ctx context.Context, list []*reservation.Reservation, prop *property.Property) ([]*ReservationProjection, error) {
	result := make([]*ReservationProjection, len(list))
	for i, res := range list {
		guest, err := s.userRepo.GetByID(ctx, res.GuestID)
		if err != nil {
			return nil, err
		}
		result[i] = s.project(res, guest, prop)
	}
	return result, nil
}
