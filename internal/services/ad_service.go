// internal/services/ad_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/clubhub/ads-backend/internal/metrics"
	"github.com/clubhub/ads-backend/internal/models"
	"github.com/clubhub/ads-backend/internal/repository"
	"github.com/clubhub/ads-backend/internal/utils"
)

const (
	WebsiteBannerWidth  = 1920
	WebsiteBannerHeight = 1080
)

// Clock returns the current instant in the business timezone.
type Clock func() time.Time

func SystemClock(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// MediaStore persists uploaded ad media.
type MediaStore interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetDefaultUploadOptions(mediaType models.MediaType) UploadOptions
}

type AdService struct {
	repo    repository.AdRepository
	checker *ConflictChecker
	media   MediaStore
	clock   Clock
}

func NewAdService(repo repository.AdRepository, media MediaStore, clock Clock) *AdService {
	return &AdService{
		repo:    repo,
		checker: NewConflictChecker(repo),
		media:   media,
		clock:   clock,
	}
}

// Request/Response types
type AssetInput struct {
	MediaType models.MediaType `json:"media_type" validate:"omitempty,oneof=IMAGE VIDEO"`
	FileURL   string           `json:"file_url" validate:"required,url"`
	Width     *int             `json:"width" validate:"omitempty,gt=0"`
	Height    *int             `json:"height" validate:"omitempty,gt=0"`
}

// MediaUpload is a file received with a multipart create request.
type MediaUpload struct {
	MediaType   models.MediaType
	Filename    string
	ContentType string
	Data        []byte
	Width       *int
	Height      *int
}

type CreateAdRequest struct {
	ClubID          *int64          `json:"club_id"`
	ClientID        *int64          `json:"client_id"`
	AdName          string          `json:"ad_name" validate:"required,max=255"`
	Branchname      *string         `json:"branchname" validate:"omitempty,max=255"`
	AdType          string          `json:"ad_type" validate:"required,ad_type"`
	ListingPosition *int            `json:"listing_position"`
	StartDate       string          `json:"start_date" validate:"required,date"`
	DurationDays    int             `json:"duration_days" validate:"required,gt=0"`
	PricePerDay     decimal.Decimal `json:"price_per_day"`
	PaymentMethod   string          `json:"payment_method" validate:"required,payment_method"`
	Assets          []AssetInput    `json:"assets" validate:"omitempty,dive"`
	Uploads         []MediaUpload   `json:"-"`
}

type UpdateAdRequest struct {
	AdType          *string          `json:"ad_type"`
	ClientID        *int64           `json:"client_id"`
	AdName          *string          `json:"ad_name" validate:"omitempty,min=1,max=255"`
	Branchname      *string          `json:"branchname" validate:"omitempty,max=255"`
	ListingPosition *int             `json:"listing_position"`
	StartDate       *string          `json:"start_date" validate:"omitempty,date"`
	DurationDays    *int             `json:"duration_days" validate:"omitempty,gt=0"`
	PricePerDay     *decimal.Decimal `json:"price_per_day"`
	PaymentMethod   *string          `json:"payment_method" validate:"omitempty,payment_method"`
	PaymentStatus   *string          `json:"payment_status" validate:"omitempty,payment_status"`
}

type ListAdsParams struct {
	utils.PaginationParams
	ClubID        *int64
	ClientID      *int64
	AdType        *models.AdType
	Branchname    *string
	Status        *models.AdStatus
	StartDateFrom *models.Date
	StartDateTo   *models.Date
}

// ListingAvailability maps rank1..rank5 to the blocking window, or nil when free.
type ListingAvailability map[string]*ConflictWindow

func (s *AdService) today() models.Date {
	return models.DateOf(s.clock())
}

// MaxUploadSize is the per-file byte limit for uploaded media of the given
// type, or 0 when uploads are unlimited.
func (s *AdService) MaxUploadSize(mediaType models.MediaType) int64 {
	if s.media == nil {
		return 0
	}
	return s.media.GetDefaultUploadOptions(mediaType).MaxSize
}

func (s *AdService) CreateAd(ctx context.Context, req *CreateAdRequest) (*models.Ad, error) {
	ad, err := req.toModel()
	if err != nil {
		return nil, err
	}

	if err := s.prepareMedia(ad.AdType, req); err != nil {
		return nil, err
	}

	// A new booking is refused outright when a reserved ad holds the slot
	key := ad.InventoryKey()
	if err := s.checker.Check(ctx, key, ad.Window(), nil); err != nil {
		s.recordConflict(key, "create", err)
		return nil, err
	}

	assets, stored, err := s.storeMedia(ctx, req)
	if err != nil {
		return nil, err
	}
	ad.Assets = assets

	if err := s.repo.Create(ctx, ad); err != nil {
		s.discardMedia(ctx, stored)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"ad_id":   ad.ID,
		"ad_type": ad.AdType,
		"slot":    key.String(),
		"start":   ad.StartDate.String(),
		"end":     ad.EndDate.String(),
	}).Info("Ad created")

	return ad, nil
}

// normalize upper-cases enum fields so JSON and multipart bodies accept the
// same spellings.
func (req *CreateAdRequest) normalize() {
	req.AdType = strings.ToUpper(strings.TrimSpace(req.AdType))
	req.PaymentMethod = strings.ToUpper(strings.TrimSpace(req.PaymentMethod))
	for i := range req.Assets {
		req.Assets[i].MediaType = models.MediaType(strings.ToUpper(string(req.Assets[i].MediaType)))
	}
}

func (req *UpdateAdRequest) normalize() {
	for _, field := range []*string{req.AdType, req.PaymentMethod, req.PaymentStatus} {
		if field != nil {
			*field = strings.ToUpper(strings.TrimSpace(*field))
		}
	}
}

func (req *CreateAdRequest) toModel() (*models.Ad, error) {
	req.normalize()
	if err := validationFromStruct(req); err != nil {
		return nil, err
	}
	if req.ClubID == nil && req.ClientID == nil {
		return nil, newValidationError("club_id", "club_id or client_id is required")
	}
	if !req.PricePerDay.IsPositive() {
		return nil, newValidationError("price_per_day", "price_per_day must be greater than 0")
	}

	adType := models.AdType(req.AdType)
	listingPosition, err := normalizeListingPosition(adType, req.ListingPosition)
	if err != nil {
		return nil, err
	}

	start, err := models.ParseDate(req.StartDate)
	if err != nil {
		return nil, newValidationError("start_date", "%s", err.Error())
	}

	ad := &models.Ad{
		ClubID:          req.ClubID,
		ClientID:        req.ClientID,
		AdName:          req.AdName,
		Branchname:      req.Branchname,
		AdType:          adType,
		ListingPosition: listingPosition,
		StartDate:       start,
		DurationDays:    req.DurationDays,
		PricePerDay:     req.PricePerDay,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.AdStatusDraft,
	}
	ad.RecomputeDerived()
	return ad, nil
}

func normalizeListingPosition(adType models.AdType, pos *int) (*int, error) {
	if !adType.HasListingPosition() {
		return nil, nil
	}
	if pos == nil {
		return nil, newValidationError("listing_position", "listing_position is required for %s ads", adType)
	}
	if *pos < models.MinListingPosition || *pos > models.MaxListingPosition {
		return nil, newValidationError("listing_position", "listing_position must be between %d and %d",
			models.MinListingPosition, models.MaxListingPosition)
	}
	p := *pos
	return &p, nil
}

// prepareMedia fills missing image dimensions and enforces the website
// banner size rule. Images are numbered uploads first, then linked assets.
func (s *AdService) prepareMedia(adType models.AdType, req *CreateAdRequest) error {
	n := 0
	images := 0
	for i := range req.Uploads {
		u := &req.Uploads[i]
		if u.MediaType == "" {
			u.MediaType = models.MediaTypeImage
		}
		if u.MediaType != models.MediaTypeImage {
			continue
		}
		n++
		images++
		if err := ValidateImage(u.Data); err != nil {
			return newValidationError("images", "Image %d: %s", n, err.Error())
		}
		if u.Width == nil || u.Height == nil {
			if w, h, err := DetectImageDimensions(u.Data); err == nil {
				u.Width, u.Height = &w, &h
			}
		}
		if adType == models.AdTypeWebsiteBanner {
			if err := checkBannerDimensions(n, u.Width, u.Height); err != nil {
				return err
			}
		}
	}
	for i := range req.Assets {
		a := &req.Assets[i]
		if a.MediaType == "" {
			a.MediaType = models.MediaTypeImage
		}
		if a.MediaType != models.MediaTypeImage {
			continue
		}
		n++
		images++
		if adType == models.AdTypeWebsiteBanner {
			if err := checkBannerDimensions(n, a.Width, a.Height); err != nil {
				return err
			}
		}
	}

	if adType == models.AdTypeWebsiteBanner && images == 0 {
		return newValidationError("images", "Website banner ads require at least one image")
	}
	return nil
}

func checkBannerDimensions(n int, width, height *int) error {
	if width == nil || height == nil {
		return newValidationError("images", "Image %d: Width and height dimensions are required for website banner ads", n)
	}
	if *width != WebsiteBannerWidth || *height != WebsiteBannerHeight {
		return newValidationError("images",
			"Image %d: Website banner images must be exactly %dpx by %dpx. Current dimensions: %dx%dpx",
			n, WebsiteBannerWidth, WebsiteBannerHeight, *width, *height)
	}
	return nil
}

func (s *AdService) storeMedia(ctx context.Context, req *CreateAdRequest) ([]models.AdAsset, []string, error) {
	assets := make([]models.AdAsset, 0, len(req.Uploads)+len(req.Assets))
	var stored []string

	for _, u := range req.Uploads {
		if s.media == nil {
			return nil, nil, fmt.Errorf("media storage is not configured")
		}
		result, err := s.media.Upload(ctx, UploadInput{
			Filename:    u.Filename,
			ContentType: u.ContentType,
			Data:        u.Data,
			Options:     s.media.GetDefaultUploadOptions(u.MediaType),
		})
		if err != nil {
			s.discardMedia(ctx, stored)
			return nil, nil, newValidationError("media", "%s", err.Error())
		}
		stored = append(stored, result.Key)
		assets = append(assets, models.AdAsset{
			MediaType:  u.MediaType,
			FileURL:    result.URL,
			StorageKey: result.Key,
			Width:      u.Width,
			Height:     u.Height,
		})
	}

	for _, a := range req.Assets {
		assets = append(assets, models.AdAsset{
			MediaType: a.MediaType,
			FileURL:   a.FileURL,
			Width:     a.Width,
			Height:    a.Height,
		})
	}
	return assets, stored, nil
}

func (s *AdService) discardMedia(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.media.Delete(ctx, key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Failed to remove orphaned media")
		}
	}
}

func (s *AdService) GetAd(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	ad, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAdNotFound
		}
		return nil, err
	}
	return ad, nil
}

func (s *AdService) ListAds(ctx context.Context, params ListAdsParams) ([]*models.Ad, int64, error) {
	return s.repo.List(ctx, repository.AdFilter{
		ClubID:        params.ClubID,
		ClientID:      params.ClientID,
		AdType:        params.AdType,
		Branchname:    params.Branchname,
		Status:        params.Status,
		StartDateFrom: params.StartDateFrom,
		StartDateTo:   params.StartDateTo,
		Offset:        params.Offset(),
		Limit:         params.Limit,
	})
}

func (s *AdService) UpdateAd(ctx context.Context, id uuid.UUID, req *UpdateAdRequest) (*models.Ad, error) {
	req.normalize()
	if err := validationFromStruct(req); err != nil {
		return nil, err
	}

	ad, err := s.GetAd(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.AdType != nil && models.AdType(*req.AdType) != ad.AdType {
		return nil, newValidationError("ad_type", "ad_type cannot be changed")
	}

	oldKey, oldWindow := ad.InventoryKey(), ad.Window()
	if err := applyUpdate(ad, req); err != nil {
		return nil, err
	}
	newKey := ad.InventoryKey()
	expected := ad.Status

	if !ad.Status.IsReserved() || (newKey == oldKey && sameWindow(ad.Window(), oldWindow)) {
		if err := s.repo.Update(ctx, ad, expected); err != nil {
			s.recordConflict(newKey, "update", err)
			return nil, s.mapUpdateError(ctx, ad, err)
		}
		return ad, nil
	}

	// Moving a reserved booking: re-check under the lock of both slots
	err = s.repo.WithSlotLock(ctx, []models.InventoryKey{oldKey, newKey}, func(ctx context.Context) error {
		if err := s.checker.Check(ctx, newKey, ad.Window(), &ad.ID); err != nil {
			return err
		}
		return s.repo.Update(ctx, ad, expected)
	})
	if err != nil {
		s.recordConflict(newKey, "update", err)
		return nil, s.mapUpdateError(ctx, ad, err)
	}

	logrus.WithFields(logrus.Fields{
		"ad_id": ad.ID,
		"slot":  newKey.String(),
		"start": ad.StartDate.String(),
		"end":   ad.EndDate.String(),
	}).Info("Reserved ad window changed")
	return ad, nil
}

func sameWindow(a, b models.Window) bool {
	return a.Start.Equal(b.Start) && a.End.Equal(b.End)
}

func applyUpdate(ad *models.Ad, req *UpdateAdRequest) error {
	if req.AdName != nil {
		ad.AdName = *req.AdName
	}
	if req.Branchname != nil {
		ad.Branchname = req.Branchname
	}
	if req.ClientID != nil {
		ad.ClientID = req.ClientID
	}
	if req.ListingPosition != nil {
		pos, err := normalizeListingPosition(ad.AdType, req.ListingPosition)
		if err != nil {
			return err
		}
		ad.ListingPosition = pos
	}
	if req.StartDate != nil {
		start, err := models.ParseDate(*req.StartDate)
		if err != nil {
			return newValidationError("start_date", "%s", err.Error())
		}
		ad.StartDate = start
	}
	if req.DurationDays != nil {
		ad.DurationDays = *req.DurationDays
	}
	if req.PricePerDay != nil {
		if !req.PricePerDay.IsPositive() {
			return newValidationError("price_per_day", "price_per_day must be greater than 0")
		}
		ad.PricePerDay = *req.PricePerDay
	}
	if req.PaymentMethod != nil {
		ad.PaymentMethod = models.PaymentMethod(*req.PaymentMethod)
	}
	if req.PaymentStatus != nil {
		ad.PaymentStatus = models.PaymentStatus(*req.PaymentStatus)
	}
	ad.RecomputeDerived()
	return nil
}

// mapUpdateError translates a failed field update of proposed, the ad as
// the caller wanted it stored.
func (s *AdService) mapUpdateError(ctx context.Context, proposed *models.Ad, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrAdNotFound
	case errors.Is(err, repository.ErrStaleStatus):
		return ErrAdModified
	case errors.Is(err, repository.ErrSlotTaken):
		key := proposed.InventoryKey()
		blocking, findErr := s.checker.FindConflict(ctx, key, proposed.Window(), &proposed.ID)
		if findErr != nil {
			return findErr
		}
		if blocking == nil {
			blocking = proposed
		}
		return newConflictError(key, blocking)
	}
	return err
}

// SubmitAd moves a DRAFT ad to PENDING_APPROVAL. Overlapping pending ads
// are allowed; only approval contends for the slot.
func (s *AdService) SubmitAd(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	ad, err := s.GetAd(ctx, id)
	if err != nil {
		return nil, err
	}
	from := ad.Status
	if err := s.applyTransition(ad, models.AdActionSubmit); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, ad, from); err != nil {
		return nil, s.mapTransitionError(ctx, id, models.AdActionSubmit, err)
	}
	s.recordTransition(ad, models.AdActionSubmit, from, "")
	return ad, nil
}

// ApproveAd reserves the slot for a PENDING_APPROVAL ad. The conflict
// re-check and the status write happen under the slot lock, so of two
// overlapping approvals exactly one succeeds.
func (s *AdService) ApproveAd(ctx context.Context, id uuid.UUID, approver string) (*models.Ad, error) {
	ad, err := s.GetAd(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := models.NextStatus(ad.Status, models.AdActionApprove); !ok {
		return nil, newInvalidTransitionError(models.AdActionApprove, ad.Status)
	}

	key := ad.InventoryKey()
	err = s.repo.WithSlotLock(ctx, []models.InventoryKey{key}, func(ctx context.Context) error {
		fresh, err := s.GetAd(ctx, id)
		if err != nil {
			return err
		}
		if err := s.checker.Check(ctx, key, fresh.Window(), &fresh.ID); err != nil {
			return err
		}
		if err := s.applyTransition(fresh, models.AdActionApprove); err != nil {
			return err
		}
		now := s.clock()
		fresh.ApprovedAt = &now
		if approver != "" {
			fresh.ApprovedBy = &approver
		}
		fresh.RejectionReason = nil
		if err := s.repo.Update(ctx, fresh, models.AdStatusPendingApproval); err != nil {
			return err
		}
		ad = fresh
		return nil
	})
	if err != nil {
		s.recordConflict(key, "approve", err)
		return nil, s.mapTransitionError(ctx, id, models.AdActionApprove, err)
	}

	s.recordTransition(ad, models.AdActionApprove, models.AdStatusPendingApproval, approver)
	return ad, nil
}

// RejectAd closes a PENDING_APPROVAL ad. The reason is optional and kept
// when given.
func (s *AdService) RejectAd(ctx context.Context, id uuid.UUID, approver, reason string) (*models.Ad, error) {
	ad, err := s.GetAd(ctx, id)
	if err != nil {
		return nil, err
	}
	from := ad.Status
	if err := s.applyTransition(ad, models.AdActionReject); err != nil {
		return nil, err
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		ad.RejectionReason = &reason
	}
	if err := s.repo.Update(ctx, ad, from); err != nil {
		return nil, s.mapTransitionError(ctx, id, models.AdActionReject, err)
	}
	s.recordTransition(ad, models.AdActionReject, from, approver)
	return ad, nil
}

// ActivateAd force-activates an APPROVED ad. A future start date is pulled
// forward to today and the shifted window is re-checked for conflicts.
func (s *AdService) ActivateAd(ctx context.Context, id uuid.UUID, approver string) (*models.Ad, error) {
	ad, err := s.GetAd(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := models.NextStatus(ad.Status, models.AdActionActivate); !ok {
		return nil, newInvalidTransitionError(models.AdActionActivate, ad.Status)
	}

	key := ad.InventoryKey()
	err = s.repo.WithSlotLock(ctx, []models.InventoryKey{key}, func(ctx context.Context) error {
		fresh, err := s.GetAd(ctx, id)
		if err != nil {
			return err
		}
		if err := s.applyTransition(fresh, models.AdActionActivate); err != nil {
			return err
		}

		today := s.today()
		if fresh.StartDate.After(today) {
			fresh.StartDate = today
			fresh.RecomputeDerived()
			if err := s.checker.Check(ctx, key, fresh.Window(), &fresh.ID); err != nil {
				return err
			}
		}

		now := s.clock()
		fresh.ActivatedAt = &now
		if err := s.repo.Update(ctx, fresh, models.AdStatusApproved); err != nil {
			return err
		}
		ad = fresh
		return nil
	})
	if err != nil {
		s.recordConflict(key, "activate", err)
		return nil, s.mapTransitionError(ctx, id, models.AdActionActivate, err)
	}

	s.recordTransition(ad, models.AdActionActivate, models.AdStatusApproved, approver)
	return ad, nil
}

func (s *AdService) applyTransition(ad *models.Ad, action models.AdAction) error {
	next, ok := models.NextStatus(ad.Status, action)
	if !ok {
		return newInvalidTransitionError(action, ad.Status)
	}
	ad.Status = next
	return nil
}

// mapTransitionError turns repository outcomes into lifecycle errors. A
// stale compare-and-set means another writer moved the ad first.
func (s *AdService) mapTransitionError(ctx context.Context, id uuid.UUID, action models.AdAction, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrAdNotFound
	case errors.Is(err, repository.ErrStaleStatus):
		current, getErr := s.GetAd(ctx, id)
		if getErr != nil {
			return getErr
		}
		return newInvalidTransitionError(action, current.Status)
	case errors.Is(err, repository.ErrSlotTaken):
		return s.slotTakenError(ctx, id)
	}
	return err
}

// slotTakenError reports the reservation that won a race caught by the
// database constraint rather than the re-check.
func (s *AdService) slotTakenError(ctx context.Context, id uuid.UUID) error {
	ad, err := s.GetAd(ctx, id)
	if err != nil {
		return err
	}
	key := ad.InventoryKey()
	blocking, err := s.checker.FindConflict(ctx, key, ad.Window(), &ad.ID)
	if err != nil {
		return err
	}
	if blocking == nil {
		blocking = ad
	}
	return newConflictError(key, blocking)
}

func (s *AdService) recordTransition(ad *models.Ad, action models.AdAction, from models.AdStatus, actor string) {
	metrics.AdTransitionsTotal.WithLabelValues(string(action)).Inc()
	logrus.WithFields(logrus.Fields{
		"ad_id":  ad.ID,
		"action": action,
		"from":   from,
		"to":     ad.Status,
		"actor":  actor,
	}).Info("Ad status changed")
}

func (s *AdService) recordConflict(key models.InventoryKey, stage string, err error) {
	var conflict *ConflictError
	if !errors.As(err, &conflict) && !errors.Is(err, repository.ErrSlotTaken) {
		return
	}
	metrics.SlotConflictsTotal.WithLabelValues(string(key.AdType), stage).Inc()
	logrus.WithFields(logrus.Fields{
		"slot":  key.String(),
		"stage": stage,
	}).Info("Slot conflict")
}

// ListingAvailability reports, for each club listing rank, the first
// reserved window overlapping the requested range.
func (s *AdService) ListingAvailability(ctx context.Context, startDate string, durationDays int) (ListingAvailability, error) {
	start, err := models.ParseDate(startDate)
	if err != nil {
		return nil, newValidationError("start_date", "%s", err.Error())
	}
	if durationDays <= 0 {
		return nil, newValidationError("duration_days", "duration_days must be greater than 0")
	}
	window := models.Window{Start: start, End: models.ComputeEndDate(start, durationDays)}

	ads, err := s.repo.ListByStatusAndWindow(ctx, repository.WindowQuery{
		Statuses: models.ReservedStatuses,
		AdType:   models.AdTypeClubListing,
		Window:   window,
	})
	if err != nil {
		return nil, err
	}

	result := make(ListingAvailability, models.MaxListingPosition)
	for rank := models.MinListingPosition; rank <= models.MaxListingPosition; rank++ {
		result[rankKey(rank)] = nil
	}
	for _, ad := range ads {
		if ad.ListingPosition == nil {
			continue
		}
		name := rankKey(*ad.ListingPosition)
		if existing, ok := result[name]; ok && existing == nil {
			result[name] = &ConflictWindow{StartDate: ad.StartDate, EndDate: ad.EndDate}
		}
	}
	return result, nil
}

func rankKey(rank int) string {
	return fmt.Sprintf("rank%d", rank)
}

// ActiveWebsiteBanners lists ACTIVE website banners running today.
func (s *AdService) ActiveWebsiteBanners(ctx context.Context) ([]*models.Ad, error) {
	today := s.today()
	return s.repo.ListByStatusAndWindow(ctx, repository.WindowQuery{
		Statuses: []models.AdStatus{models.AdStatusActive},
		AdType:   models.AdTypeWebsiteBanner,
		Window:   models.Window{Start: today, End: today},
	})
}

// ReservedBookings lists APPROVED and ACTIVE ads overlapping window; zero
// bounds are open.
func (s *AdService) ReservedBookings(ctx context.Context, window models.Window) ([]*models.Ad, error) {
	return s.repo.ListByStatusAndWindow(ctx, repository.WindowQuery{
		Statuses: models.ReservedStatuses,
		Window:   window,
	})
}

func (s *AdService) GetAsset(ctx context.Context, id uuid.UUID) (*models.AdAsset, error) {
	asset, err := s.repo.GetAsset(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return asset, nil
}

// PromoteDueAds activates APPROVED ads whose window contains today.
func (s *AdService) PromoteDueAds(ctx context.Context) (int64, error) {
	n, err := s.repo.PromoteDue(ctx, s.today())
	if n > 0 {
		metrics.AdTransitionsTotal.WithLabelValues(string(models.AdActionPromote)).Add(float64(n))
	}
	return n, err
}

// ExpireEndedAds expires APPROVED and ACTIVE ads whose window ended before today.
func (s *AdService) ExpireEndedAds(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpirePast(ctx, s.today())
	if n > 0 {
		metrics.AdTransitionsTotal.WithLabelValues(string(models.AdActionExpire)).Add(float64(n))
	}
	return n, err
}
