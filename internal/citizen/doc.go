// Package citizen holds the citizen-facing pieces of the city: users,
// patients, the mobile app and digital signage.
package citizen
