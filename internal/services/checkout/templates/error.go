package templates

import "net/http"

const (
	appErrorPageTitleNotFoundKey  = "error.page_title_not_found"
	appErrorPageTitleServerErrKey = "error.page_title_server_error"
	appErrorMessageNotFoundKey    = "error.message_not_found"
	appErrorMessageServerErrKey   = "error.message_server_error"
	appErrorBackKey               = "error.action_back"
)

// AppErrorPageTitle returns the browser page title for app error pages.
func AppErrorPageTitle(statusCode int, loc Localizer) string {
	if normalizeAppErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, appErrorPageTitleNotFoundKey)
	}
	return T(loc, appErrorPageTitleServerErrKey)
}

func appErrorMessage(statusCode int, loc Localizer) string {
	if normalizeAppErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, appErrorMessageNotFoundKey)
	}
	return T(loc, appErrorMessageServerErrKey)
}

func normalizeAppErrorStatus(statusCode int) int {
	if statusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
