// @title           Mazao ERP API
// @version         1.0
// @description     CRUD backend for managing farmers and their crops. Authenticate via the session cookie set by /auth/login.
// @BasePath        /api/v1
package api
