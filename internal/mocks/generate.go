package mocks

//go:generate mockery --name ReviewStore --srcpkg github.com/reviewlens/reviewlens/internal/core/storage --output ./storage --outpkg storagemocks --filename mock_ReviewStore.go --with-expecter
//go:generate mockery --name Source --srcpkg github.com/reviewlens/reviewlens/internal/source --output ./source --outpkg sourcemocks --filename mock_Source.go --with-expecter
