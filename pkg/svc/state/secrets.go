package state

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"
)

// ErrMalformedRelease is returned when a Helm release secret cannot be decoded.
var ErrMalformedRelease = errors.New("malformed helm release secret")

// releaseDataKey is the secret key holding the encoded release.
const releaseDataKey = "release"

var gzipMagic = []byte{0x1f, 0x8b, 0x08}

// StoredRelease is the part of a Helm release record this package reads.
type StoredRelease struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
	Chart   struct {
		Metadata struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"metadata"`
	} `json:"chart"`
}

// ReleaseSecrets reads installed versions straight from the release secrets Helm
// stores in the cluster, without a helm binary.
type ReleaseSecrets struct {
	client  kubernetes.Interface
	locator releaseLocator
}

var _ Reader = (*ReleaseSecrets)(nil)

// NewReleaseSecrets creates a reader resolving component names through components.
func NewReleaseSecrets(client kubernetes.Interface, components []v1alpha1.ComponentSpec) *ReleaseSecrets {
	return &ReleaseSecrets{client: client, locator: newReleaseLocator(components)}
}

// InstalledVersion implements Reader. When several deployed revisions exist the
// highest one wins.
func (r *ReleaseSecrets) InstalledVersion(ctx context.Context, name string) (string, bool, error) {
	ref := r.locator.lookup(name)

	selector := labels.SelectorFromSet(labels.Set{
		"owner":  "helm",
		"name":   ref.release,
		"status": statusDeployed,
	})

	secrets, err := r.client.CoreV1().Secrets(ref.namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector.String(),
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to list release secrets of %s: %w", name, err)
	}

	latest := -1

	var version string

	for i := range secrets.Items {
		secret := &secrets.Items[i]

		revision := secretRevision(secret)
		if revision <= latest {
			continue
		}

		release, decodeErr := DecodeRelease(secret.Data[releaseDataKey])
		if decodeErr != nil {
			return "", false, fmt.Errorf("secret %s/%s: %w", secret.Namespace, secret.Name, decodeErr)
		}

		latest = revision
		version = release.Chart.Metadata.Version
	}

	if latest < 0 {
		return "", false, nil
	}

	return version, true, nil
}

// secretRevision reads the revision from the "version" label, 0 when absent.
func secretRevision(secret *corev1.Secret) int {
	revision, err := strconv.Atoi(secret.Labels["version"])
	if err != nil {
		return 0
	}

	return revision
}

// DecodeRelease decodes the release payload of a Helm secret: base64 text of a
// gzip-compressed (or plain) JSON document.
func DecodeRelease(data []byte) (*StoredRelease, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty release data", ErrMalformedRelease)
	}

	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRelease, err)
	}

	if bytes.HasPrefix(raw, gzipMagic) {
		reader, gzErr := gzip.NewReader(bytes.NewReader(raw))
		if gzErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRelease, gzErr)
		}

		defer func() { _ = reader.Close() }()

		raw, err = io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRelease, err)
		}
	}

	var release StoredRelease

	err = json.Unmarshal(raw, &release)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRelease, err)
	}

	return &release, nil
}
