package k8s

import "errors"

// ErrKubeconfigNotFound is returned when an explicit kubeconfig path does not exist.
var ErrKubeconfigNotFound = errors.New("kubeconfig not found")
