// Package main provides the entry point of go-rbac-admin, an administration
// service for role based access control. Users hold roles, roles hold
// permissions, and a permission is granted when any role of the user holds
// it. The service exposes a JSON API built on fiber and persists through
// gorm on MySQL, PostgreSQL or SQLite.
package main
