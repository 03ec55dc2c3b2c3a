// Package api is a thin client for the prediction backend's clustering
// endpoint.
//
// The backend clusters the teams of a league by their match statistics and
// returns the dendrogram coordinates of the result:
//
//	GET {base}/clustering?league=EPL&season=2024-25&metric=xg&method=average
//
// [Client.FetchClustering] validates the request, sends it once and checks
// the payload before returning a [dendrogram.Result]. A 404 maps to
// [ErrNotFound]; every other failure maps to [ErrNetwork]. Successful
// responses are cached for [cache.TTLClustering] when a cache is configured
// with [WithCache].
package api
