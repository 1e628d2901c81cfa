// Package k8s builds Kubernetes clients from a kubeconfig path and context.
package k8s
