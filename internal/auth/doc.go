// Package auth manages the logged in user.
//
// A Provider performs the platform login and keeps the resulting user in a
// database.UserStore, so the user survives between CLI invocations. There is
// no ambient "current user": every caller asks the Provider.
package auth
