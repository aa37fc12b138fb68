// Package utils provides common utility functions for the order-sync application.
// It includes helpers for type conversion, external code normalization and the
// date format of the POS API.
package utils
