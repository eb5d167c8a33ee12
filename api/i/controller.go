package i

import "github.com/gin-gonic/gin"

// Controller mounts its routes on a versioned route group.
type Controller interface {
	Register(*gin.RouterGroup)
}
