package entity

type FetchState string

const (
	FetchIdle     FetchState = "idle"
	FetchFetching FetchState = "fetching"
	FetchFailed   FetchState = "failed"
)

// BackgroundFetchStatus is the state of background resolution. URL is set
// only when State is FetchFailed.
type BackgroundFetchStatus struct {
	State FetchState
	URL   string
}

func FetchStatusIdle() BackgroundFetchStatus {
	return BackgroundFetchStatus{State: FetchIdle}
}

func FetchStatusFetching() BackgroundFetchStatus {
	return BackgroundFetchStatus{State: FetchFetching}
}

func FetchStatusFailed(url string) BackgroundFetchStatus {
	return BackgroundFetchStatus{State: FetchFailed, URL: url}
}
