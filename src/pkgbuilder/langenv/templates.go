package langenv

const rustTemplate = `
apt install -y curl gpg gpg-agent
cd /tmp && curl -o rust.tar.xz -L ${rust_binary_url}
cd /tmp && echo "${rust_binary_gpg_asc}" > rust.tar.xz.asc
cd /tmp && curl -sSf https://static.rust-lang.org/rust-key.gpg.ascii | gpg --import
cd /tmp && gpg --verify rust.tar.xz.asc rust.tar.xz
cd /tmp && mkdir -p rust && tar xJf rust.tar.xz -C rust --strip-components=1 --exclude=rust-docs
cd /tmp/rust && ./install.sh --without=rust-docs
rustc --version
apt remove -y gpg gpg-agent
`

const goTemplate = `
apt install -y wget
cd /tmp && wget -q -O go.tar.gz ${go_binary_url}
cd /tmp && echo "${go_binary_checksum} go.tar.gz" | sha256sum -c -
cd /tmp && rm -rf /usr/local/go && tar -C /usr/local -xzf go.tar.gz
ln -sf /usr/local/go/bin/go /usr/bin/go
go version
`

const nodeTemplate = `
apt install -y wget
cd /tmp && wget -q -O node.tar.gz ${node_binary_url}
cd /tmp && echo "${node_binary_checksum} node.tar.gz" | sha256sum -c -
cd /tmp && tar xzf node.tar.gz -C /usr/local --strip-components=1
node --version
npm --version
`

const yarnTemplate = `
npm install --global yarn@${yarn_version}
yarn --version
`

const typescriptTemplate = `
npm install --global typescript
tsc --version
`

const jdkTemplate = `
apt install -y wget
mkdir -p /opt/lib/jvm/jdk-${jdk_version}
cd /tmp && wget -q -O jdk.tar.gz ${jdk_binary_url}
cd /tmp && echo "${jdk_binary_checksum} jdk.tar.gz" | sha256sum -c -
cd /tmp && tar xzf jdk.tar.gz -C /opt/lib/jvm/jdk-${jdk_version} --strip-components=1
ln -sf /opt/lib/jvm/jdk-${jdk_version}/bin/java /usr/bin/java
ln -sf /opt/lib/jvm/jdk-${jdk_version}/bin/javac /usr/bin/javac
java -version
`

const gradleTemplate = `
apt install -y unzip
cd /tmp && wget -q -O gradle.zip ${gradle_binary_url}
cd /tmp && echo "${gradle_binary_checksum} gradle.zip" | sha256sum -c -
mkdir -p /opt/lib/gradle
cd /tmp && unzip -q -d /opt/lib/gradle gradle.zip
ln -sf /opt/lib/gradle/gradle-${gradle_version}/bin/gradle /usr/bin/gradle
gradle --version
`

const dotnetPackageTemplate = `
cd /tmp && wget -q -O ${name}.deb ${url}
cd /tmp && echo "${hash} ${name}.deb" | sha1sum -c -
cd /tmp && apt install -y --allow-downgrades ./${name}.deb
`

const nimTemplate = `
apt install -y wget xz-utils
rm -rf /tmp/nim-${nim_version} && mkdir -p /tmp/nim-${nim_version}
cd /tmp && wget -q -O nim.tar.xz ${nim_binary_url}
cd /tmp && echo "${nim_version_checksum} nim.tar.xz" | sha256sum -c -
cd /tmp && tar xJf nim.tar.xz -C /tmp/nim-${nim_version} --strip-components=1
cd /tmp/nim-${nim_version} && sh install.sh /usr/lib && cp ./bin/nim /usr/bin/nim
nim --version
`
