// internal/handlers/ad.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/clubhub/ads-backend/internal/i18n"
	"github.com/clubhub/ads-backend/internal/models"
	"github.com/clubhub/ads-backend/internal/services"
	"github.com/clubhub/ads-backend/internal/utils"
)

type AdHandler struct {
	adService     *services.AdService
	exportService *services.ExportService
}

func NewAdHandler(adService *services.AdService, exportService *services.ExportService) *AdHandler {
	return &AdHandler{
		adService:     adService,
		exportService: exportService,
	}
}

// Uploads accepted per multipart create request.
const (
	maxImagesPerAd = 3
	maxVideosPerAd = 1
)

type RejectAdRequest struct {
	Reason string `json:"reason"`
}

// POST /ads/create
func (h *AdHandler) CreateAd(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req *services.CreateAdRequest
	var err error
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		limits := uploadLimits{
			image: h.adService.MaxUploadSize(models.MediaTypeImage),
			video: h.adService.MaxUploadSize(models.MediaTypeVideo),
		}
		if limit := limits.bodyLimit(); limit > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		req, err = bindMultipartCreate(c, limits)
	} else {
		req = &services.CreateAdRequest{}
		if bindErr := c.ShouldBindJSON(req); bindErr != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), bindErr.Error())
			return
		}
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ad, err := h.adService.CreateAd(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyAdCreated), ad)
}

// GET /ads/get
func (h *AdHandler) GetAds(c *gin.Context) {
	params, err := listParamsFromQuery(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.respondWithAds(c, params)
}

// GET /ads/get/clubs/:club_id
func (h *AdHandler) GetClubAds(c *gin.Context) {
	clubID, err := strconv.ParseInt(c.Param("club_id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationInvalid, "club_id"), nil)
		return
	}

	params, err := listParamsFromQuery(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	params.ClubID = &clubID
	h.respondWithAds(c, params)
}

func (h *AdHandler) respondWithAds(c *gin.Context, params services.ListAdsParams) {
	ads, total, err := h.adService.ListAds(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(ads, total, params.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /ads/get/:id
func (h *AdHandler) GetAd(c *gin.Context) {
	id, ok := parseAdID(c)
	if !ok {
		return
	}

	ad, err := h.adService.GetAd(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, ad)
}

// PUT /ads/update/:id
func (h *AdHandler) UpdateAd(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseAdID(c)
	if !ok {
		return
	}

	var req services.UpdateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	ad, err := h.adService.UpdateAd(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.MessageResponse(c, i18n.T(lang, i18n.KeyAdUpdated), ad)
}

// POST /ads/:id/submit
func (h *AdHandler) SubmitAd(c *gin.Context) {
	id, ok := parseAdID(c)
	if !ok {
		return
	}

	ad, err := h.adService.SubmitAd(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.MessageResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAdSubmitted), ad)
}

// POST /ads/:id/approve
func (h *AdHandler) ApproveAd(c *gin.Context) {
	id, ok := parseAdID(c)
	if !ok {
		return
	}
	approver, _ := utils.GetUserIDFromContext(c)

	ad, err := h.adService.ApproveAd(c.Request.Context(), id, approver)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.MessageResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAdApproved), ad)
}

// POST /ads/:id/reject
func (h *AdHandler) RejectAd(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseAdID(c)
	if !ok {
		return
	}

	var req RejectAdRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	approver, _ := utils.GetUserIDFromContext(c)

	ad, err := h.adService.RejectAd(c.Request.Context(), id, approver, strings.TrimSpace(req.Reason))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.MessageResponse(c, i18n.T(lang, i18n.KeyAdRejected), ad)
}

// POST /ads/:id/activate
func (h *AdHandler) ActivateAd(c *gin.Context) {
	id, ok := parseAdID(c)
	if !ok {
		return
	}
	approver, _ := utils.GetUserIDFromContext(c)

	ad, err := h.adService.ActivateAd(c.Request.Context(), id, approver)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.MessageResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAdActivated), ad)
}

// GET /ads/listing-availability?start_date=YYYY-MM-DD&duration_days=N
func (h *AdHandler) GetListingAvailability(c *gin.Context) {
	days, err := strconv.Atoi(c.Query("duration_days"))
	if err != nil {
		handleServiceError(c, &services.ValidationError{
			Field:   "duration_days",
			Message: "duration_days must be a positive integer",
		})
		return
	}

	availability, err := h.adService.ListingAvailability(c.Request.Context(), c.Query("start_date"), days)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, availability)
}

// GET /ads/website-banners/active
func (h *AdHandler) GetActiveWebsiteBanners(c *gin.Context) {
	ads, err := h.adService.ActiveWebsiteBanners(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.MessageResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAdActiveBanners), gin.H{
		"count": len(ads),
		"ads":   ads,
	})
}

// GET /ads/export?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *AdHandler) ExportBookings(c *gin.Context) {
	var window models.Window
	for _, p := range []struct {
		name string
		dst  *models.Date
	}{{"from", &window.Start}, {"to", &window.End}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			handleServiceError(c, &services.ValidationError{Field: p.name, Message: err.Error()})
			return
		}
		*p.dst = d
	}

	data, err := h.exportService.ExportBookings(c.Request.Context(), window)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("ad-bookings-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func parseAdID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAdInvalidID), nil)
		return uuid.Nil, false
	}
	return id, true
}

// listAdsQuery holds the enum filters of the ad list endpoints.
type listAdsQuery struct {
	AdType string `form:"ad_type" validate:"omitempty,ad_type"`
	Status string `form:"status" validate:"omitempty,ad_status"`
}

func listParamsFromQuery(c *gin.Context) (services.ListAdsParams, error) {
	params := services.ListAdsParams{PaginationParams: utils.GetPaginationParams(c)}

	for _, f := range []struct {
		name string
		dst  **int64
	}{{"club_id", &params.ClubID}, {"client_id", &params.ClientID}} {
		v, err := optionalInt64(c.Query(f.name), f.name)
		if err != nil {
			return params, err
		}
		*f.dst = v
	}

	var query listAdsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return params, &services.ValidationError{Field: "query", Message: err.Error()}
	}
	query.AdType = strings.ToUpper(strings.TrimSpace(query.AdType))
	query.Status = strings.ToUpper(strings.TrimSpace(query.Status))
	if err := utils.ValidateStruct(&query); err != nil {
		details := utils.GetValidationErrors(err)
		return params, &services.ValidationError{Field: details[0].Field, Message: details[0].Message, Details: details}
	}
	if query.AdType != "" {
		adType := models.AdType(query.AdType)
		params.AdType = &adType
	}
	if query.Status != "" {
		status := models.AdStatus(query.Status)
		params.Status = &status
	}
	if v := c.Query("branchname"); v != "" {
		params.Branchname = &v
	}

	for _, f := range []struct {
		name string
		dst  **models.Date
	}{{"start_date_from", &params.StartDateFrom}, {"start_date_to", &params.StartDateTo}} {
		raw := c.Query(f.name)
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			return params, &services.ValidationError{Field: f.name, Message: err.Error()}
		}
		*f.dst = &d
	}

	return params, nil
}

type uploadLimits struct {
	image int64
	video int64
}

// multipartOverhead covers form fields and part headers.
const multipartOverhead = 1 << 20

// bodyLimit is the largest multipart body that can carry the allowed files.
// Zero means no limit.
func (l uploadLimits) bodyLimit() int64 {
	if l.image <= 0 || l.video <= 0 {
		return 0
	}
	return maxImagesPerAd*l.image + maxVideosPerAd*l.video + multipartOverhead
}

func (l uploadLimits) forType(mediaType models.MediaType) int64 {
	if mediaType == models.MediaTypeVideo {
		return l.video
	}
	return l.image
}

// bindMultipartCreate reads a create request sent as multipart/form-data
// with images[] and an optional video file.
func bindMultipartCreate(c *gin.Context, limits uploadLimits) (*services.CreateAdRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, &services.ValidationError{Field: "body", Message: "invalid multipart form: " + err.Error()}
	}

	req := &services.CreateAdRequest{
		AdName:        strings.TrimSpace(c.PostForm("ad_name")),
		AdType:        strings.TrimSpace(c.PostForm("ad_type")),
		StartDate:     strings.TrimSpace(c.PostForm("start_date")),
		PaymentMethod: strings.TrimSpace(c.PostForm("payment_method")),
	}
	if v := strings.TrimSpace(c.PostForm("branchname")); v != "" {
		req.Branchname = &v
	}
	if req.ClubID, err = optionalInt64(c.PostForm("club_id"), "club_id"); err != nil {
		return nil, err
	}
	if req.ClientID, err = optionalInt64(c.PostForm("client_id"), "client_id"); err != nil {
		return nil, err
	}
	if req.ListingPosition, err = optionalInt(c.PostForm("listing_position"), "listing_position"); err != nil {
		return nil, err
	}
	if days, err := optionalInt(c.PostForm("duration_days"), "duration_days"); err != nil {
		return nil, err
	} else if days != nil {
		req.DurationDays = *days
	}
	if v := strings.TrimSpace(c.PostForm("price_per_day")); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return nil, &services.ValidationError{Field: "price_per_day", Message: "price_per_day must be a number"}
		}
		req.PricePerDay = price
	}

	widths, err := parseDimensionList(c.PostForm("images_widths"), "images_widths")
	if err != nil {
		return nil, err
	}
	heights, err := parseDimensionList(c.PostForm("images_heights"), "images_heights")
	if err != nil {
		return nil, err
	}

	images := form.File["images"]
	if len(images) > maxImagesPerAd {
		return nil, &services.ValidationError{
			Field:   "images",
			Message: fmt.Sprintf("at most %d images can be uploaded", maxImagesPerAd),
		}
	}
	if len(form.File["video"]) > maxVideosPerAd {
		return nil, &services.ValidationError{Field: "video", Message: "only one video can be uploaded"}
	}

	for i, fh := range images {
		upload, err := readUpload(fh, models.MediaTypeImage, limits.forType(models.MediaTypeImage))
		if err != nil {
			return nil, err
		}
		upload.Width = dimensionAt(widths, i)
		upload.Height = dimensionAt(heights, i)
		req.Uploads = append(req.Uploads, upload)
	}

	if files := form.File["video"]; len(files) > 0 {
		upload, err := readUpload(files[0], models.MediaTypeVideo, limits.forType(models.MediaTypeVideo))
		if err != nil {
			return nil, err
		}
		if upload.Width, err = optionalInt(c.PostForm("video_width"), "video_width"); err != nil {
			return nil, err
		}
		if upload.Height, err = optionalInt(c.PostForm("video_height"), "video_height"); err != nil {
			return nil, err
		}
		req.Uploads = append(req.Uploads, upload)
	}

	return req, nil
}

// readUpload loads one uploaded file into memory. Files over maxSize are
// refused before they are opened.
func readUpload(fh *multipart.FileHeader, mediaType models.MediaType, maxSize int64) (services.MediaUpload, error) {
	field := "images"
	if mediaType == models.MediaTypeVideo {
		field = "video"
	}
	if maxSize > 0 && fh.Size > maxSize {
		return services.MediaUpload{}, &services.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s exceeds the maximum upload size of %d MB", fh.Filename, maxSize>>20),
		}
	}

	f, err := fh.Open()
	if err != nil {
		return services.MediaUpload{}, &services.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("could not open upload %s: %v", fh.Filename, err),
		}
	}
	defer f.Close()

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return services.MediaUpload{}, &services.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("could not read upload %s: %v", fh.Filename, err),
		}
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return services.MediaUpload{}, &services.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s exceeds the maximum upload size of %d MB", fh.Filename, maxSize>>20),
		}
	}

	return services.MediaUpload{
		MediaType:   mediaType,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// parseDimensionList accepts a JSON array ("[1920,1920]") or a comma list.
func parseDimensionList(raw, field string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if strings.HasPrefix(raw, "[") {
		var values []json.Number
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, &services.ValidationError{Field: field, Message: field + " must be a list of integers"}
		}
		out := make([]int, 0, len(values))
		for _, v := range values {
			n, err := strconv.Atoi(v.String())
			if err != nil {
				return nil, &services.ValidationError{Field: field, Message: field + " must be a list of integers"}
			}
			out = append(out, n)
		}
		return out, nil
	}

	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, &services.ValidationError{Field: field, Message: field + " must be a list of integers"}
		}
		out = append(out, n)
	}
	return out, nil
}

func dimensionAt(values []int, i int) *int {
	if i >= len(values) || values[i] <= 0 {
		return nil
	}
	v := values[i]
	return &v
}

func optionalInt64(raw, field string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &services.ValidationError{Field: field, Message: field + " must be an integer"}
	}
	return &v, nil
}

func optionalInt(raw, field string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &services.ValidationError{Field: field, Message: field + " must be an integer"}
	}
	return &v, nil
}

// handleServiceError maps the service error taxonomy onto the response
// envelope. Anything unrecognised is logged and reported as a 500.
func handleServiceError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError
	var transitionErr *services.InvalidTransitionError

	switch {
	case errors.As(err, &validationErr):
		var details interface{}
		if len(validationErr.Details) > 0 {
			details = validationErr.Details
		} else {
			details = []utils.ValidationError{{Field: validationErr.Field, Message: validationErr.Message}}
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Message, details)

	case errors.As(err, &conflictErr):
		message := i18n.T(lang, i18n.KeyAdSlotTakenType, conflictErr.Key.AdType)
		if conflictErr.Key.AdType.HasListingPosition() {
			message = i18n.T(lang, i18n.KeyAdSlotTakenPosition)
		}
		utils.ConflictResponse(c, message, conflictErr.Conflict)

	case errors.As(err, &transitionErr):
		message := i18n.T(lang, i18n.KeyAdInvalidTransition, transitionErr.RequiredLabel(), transitionErr.Action.Verb())
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_TRANSITION", message, gin.H{
			"current_status":    transitionErr.Current,
			"required_statuses": transitionErr.Required,
		})

	case errors.Is(err, services.ErrAdNotFound):
		utils.NotFoundResponse(c, i18n.KeyAdNotFound)

	case errors.Is(err, services.ErrAssetNotFound):
		utils.NotFoundResponse(c, i18n.KeyAssetNotFound)

	case errors.Is(err, services.ErrAdModified):
		utils.ErrorResponse(c, http.StatusConflict, "CONCURRENT_MODIFICATION", i18n.T(lang, i18n.KeyAdModified), nil)

	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}
