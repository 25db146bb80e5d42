// Package assets issues credentials for direct-to-store image uploads. The
// API never proxies image bytes: the browser compresses the image locally
// and uploads it straight to the asset store with these parameters.
package assets

import "context"

// UploadCredentials is the payload handed to the uploading client. Fields
// are provider-specific; Provider tells the client which flow to run.
type UploadCredentials struct {
	Provider string `json:"provider"`
	// ImageKit signature flow
	Token       string `json:"token,omitempty"`
	Expire      int64  `json:"expire,omitempty"`
	Signature   string `json:"signature,omitempty"`
	PublicKey   string `json:"publicKey,omitempty"`
	URLEndpoint string `json:"urlEndpoint,omitempty"`
	// Presigned-URL flow
	UploadURL string `json:"uploadUrl,omitempty"`
	AssetURL  string `json:"assetUrl,omitempty"`
}

// Provider generates one-shot upload credentials. filename is advisory; a
// provider may ignore it or derive the stored object name from it.
type Provider interface {
	UploadCredentials(ctx context.Context, filename string) (UploadCredentials, error)
}
