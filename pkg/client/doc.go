// Package client provides clients for the external tools the installer drives.
//
//   - helm: argv builders and a release-listing client for the helm CLI
//   - netretry: classification of transient network failures and backoff delays
package client
