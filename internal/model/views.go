package model

// Asset is what the asset host returns for an upload.
type Asset struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

type ChannelProfile struct {
	ID                        uint   `json:"id"`
	FullName                  string `json:"fullName"`
	Username                  string `json:"username"`
	Email                     string `json:"email"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	SubscribersCount          int    `json:"subscribersCount"`
	ChannelsSubscribedToCount int    `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// OwnerSummary is the public projection of a video owner.
type OwnerSummary struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type WatchedVideo struct {
	Video
	Owner *OwnerSummary `json:"owner"`
}

// AssetCleanupJob asks the cleanup worker to delete a replaced asset.
type AssetCleanupJob struct {
	AssetID string    `json:"assetId"`
	UserID  uint      `json:"userId"`
	Slot    AssetSlot `json:"slot"`
}
