package handler

import (
	"net/http"

	"github.com/vfg2006/meta-ads-gateway/internal/api/handler/router"
	"github.com/vfg2006/meta-ads-gateway/internal/gateway"
	"github.com/vfg2006/meta-ads-gateway/internal/usecases/tokening"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Invoke(service gateway.Gateway) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/invoke",
			Method:  http.MethodPost,
			Handler: InvokeCall(service),
		},
	}
}

func Credentials(service tokening.TokenService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/credentials",
			Method:  http.MethodPut,
			Handler: StoreCredential(service),
		},
		{
			Path:    "/v1/credentials",
			Method:  http.MethodGet,
			Handler: DescribeCredential(service),
		},
		{
			Path:    "/v1/credentials",
			Method:  http.MethodDelete,
			Handler: DeleteCredential(service),
		},
		{
			Path:    "/v1/credentials/refresh",
			Method:  http.MethodPost,
			Handler: RefreshCredential(service),
		},
	}
}
